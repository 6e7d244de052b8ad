package handlers

import (
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/tungdtnguyen/messenger-backend/internal/storage"
)

const maxUploadBytes = 10 * 1024 * 1024

// uploadedObject describes a form file pushed into the object store.
type uploadedObject struct {
	Key         string
	FileName    string
	ContentType string
}

func (u *uploadedObject) isImage() bool {
	return strings.HasPrefix(u.ContentType, "image")
}

// uploadFormFile streams the named multipart part into the object store
// under a fresh key. Returns (nil, nil) when the part is absent — uploads
// are optional everywhere they appear.
func uploadFormFile(c *fiber.Ctx, store storage.ObjectStore, field string) (*uploadedObject, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}
	if fileHeader.Size > maxUploadBytes {
		return nil, fmt.Errorf("file exceeds %d bytes", maxUploadBytes)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	obj := &uploadedObject{
		Key:         storage.RandomKey(),
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
	}
	if err := store.Put(c.UserContext(), obj.Key, file, fileHeader.Size, obj.ContentType); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}
	return obj, nil
}
