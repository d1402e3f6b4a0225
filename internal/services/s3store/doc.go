// Package s3store uploads source audio to S3 and removes it after a run.
//
// Objects are keyed by file base name, encrypted with AES256 and addressed
// by s3://bucket/key locators. NewFromAWS detects the bucket region first so
// uploads go to a region-pinned client. ListBuckets, BucketRegion and
// BucketExists back the CLI bucket picker.
package s3store
