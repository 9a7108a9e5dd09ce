package security

import (
	"crypto/hmac"
	"crypto/sha256"
)

// SignResource produces a tamper-evident signature over a stored object,
// persisted beside the image row and checked when building public URLs.
func SignResource(secret string, resourceID string, objectKey string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(resourceID))
	mac.Write([]byte{0})
	mac.Write([]byte(objectKey))
	return mac.Sum(nil)
}

func VerifyResource(secret string, resourceID string, objectKey string, signature []byte) bool {
	expected := SignResource(secret, resourceID, objectKey)
	return hmac.Equal(expected, signature)
}
