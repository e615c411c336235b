// Package gcs provides a Cloud Storage implementation of driven.BlobStore.
//
// Objects are written with google.golang.org/api/storage/v1. Metadata tags map
// onto custom object metadata. Create-only writes send ifGenerationMatch=0, so
// Cloud Storage itself rejects a second writer with 412 Precondition Failed.
package gcs
