// Package google provides shared infrastructure for the Google-backed adapters.
//
// The gcs blob store and the discoveryengine search index both build their
// API clients through this package:
//   - Credentials from a service account file or Application Default Credentials
//   - A token bucket rate limiter wrapped around the HTTP transport, with
//     backoff when Google answers 429
//   - Classification of googleapi.Error codes into domain errors
//
// # Usage
//
//	opts, err := google.ClientOptions(ctx, settings.Google, storage.DevstorageReadWriteScope)
//	svc, err := storage.NewService(ctx, opts...)
package google
