package dispatch

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
)

// Notification is one normalized object-created occurrence.
type Notification struct {
	ID     string
	Bucket string
	Key    string
}

// NotificationFromRecord validates one S3 event record and normalizes it.
// The upstream format is not trusted: keys arrive URL-encoded and any field
// may be absent.
func NotificationFromRecord(r events.S3EventRecord) (Notification, error) {
	bucket := r.S3.Bucket.Name
	if bucket == "" {
		return Notification{}, &MalformedEventError{Reason: "no bucket name"}
	}
	rawKey := r.S3.Object.Key
	if rawKey == "" {
		return Notification{}, &MalformedEventError{Reason: "no object key"}
	}
	key, err := url.QueryUnescape(rawKey)
	if err != nil {
		return Notification{}, &MalformedEventError{Reason: "undecodable object key '" + rawKey + "'"}
	}
	id := r.ResponseElements["x-amz-request-id"]
	if id == "" {
		id = uuid.New().String()
	}
	return Notification{ID: id, Bucket: bucket, Key: key}, nil
}

// MediaFormatFromKey derives the media format as the key's suffix after the
// last dot, lower-cased. Empty when the key carries no suffix.
func MediaFormatFromKey(key string) string {
	ext := path.Ext(key)
	if ext == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

const jobNameHashBytes = 5

var jobNameUnsafe = regexp.MustCompile(`[^0-9a-zA-Z._-]`)

// JobNameForKey derives the transcription job name for an object key. The
// name is a pure function of the key, so a redelivered notification resolves
// to the same job and the service's uniqueness constraint absorbs the
// duplicate. The SHA-256 suffix keeps names of distinct keys distinct even
// when their sanitized base names coincide.
func JobNameForKey(key string) string {
	base := path.Base(key)
	if ext := path.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	base = jobNameUnsafe.ReplaceAllString(base, "_")
	if base == "" {
		base = "job"
	}
	if len(base) > 180 {
		base = base[:180]
	}
	sum := sha256.Sum256([]byte(key))
	return base + "-" + hex.EncodeToString(sum[:jobNameHashBytes])
}
