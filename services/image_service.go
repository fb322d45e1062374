package services

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"airbnb-clone/models"
	"airbnb-clone/storage"
)

const (
	maxAvatarBytes = 5 << 20
	msgBadImage    = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
	msgImageTooBig = "The uploaded image is larger than 5 MB."
)

// decodeAvatarImage reads a base64 image, either a bare payload or a data
// URL. A non-empty problem is the form message for a refused payload.
func decodeAvatarImage(b64 string) (data []byte, contentType, problem string) {
	if idx := strings.Index(b64, "base64,"); idx >= 0 {
		b64 = b64[idx+len("base64,"):]
	}
	b64 = strings.TrimSpace(b64)
	if base64.StdEncoding.DecodedLen(len(b64)) > maxAvatarBytes+3 {
		return nil, "", msgImageTooBig
	}

	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil || len(data) == 0 {
		return nil, "", msgBadImage
	}
	if len(data) > maxAvatarBytes {
		return nil, "", msgImageTooBig
	}
	contentType = http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", msgBadImage
	}
	return data, contentType, ""
}

// storeAvatar writes an uploaded image under the user's avatar key.
func storeAvatar(ctx context.Context, store storage.Store, user *models.User, data []byte, contentType string) (string, error) {
	key := AvatarKey(user)
	if err := store.Put(ctx, key, data, contentType); err != nil {
		return "", errors.Wrap(err, "store avatar")
	}
	return key, nil
}
