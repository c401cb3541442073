// Package serializer provides the JSON and YAML codecs used by the cache.
// Every failure is reported as a SERIALIZATION_FAILED AppError.
package serializer
