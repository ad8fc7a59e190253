package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	MimePDF         = "application/pdf"
	MimeOctetStream = "application/octet-stream"
)

// IdempotencyHeader lets clients retry attempt submissions safely.
const IdempotencyHeader = "Idempotency-Key"

const contextUserKey = "user"
