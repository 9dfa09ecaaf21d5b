package handler

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"

	"github.com/mariusw/photoframe/internal/model"
	"github.com/mariusw/photoframe/internal/utils"
)

// HandleUpload processes multipart photo uploads. Each accepted file is
// written to the uploads directory under a collision-resistant name before
// its metadata record is created.
func (h *Handler) HandleUpload(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No files uploaded"})
	}

	files := form.File["photos"]
	if len(files) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No files uploaded"})
	}
	if len(files) > h.cfg.MaxFiles {
		return c.JSON(http.StatusBadRequest,
			map[string]string{"error": fmt.Sprintf("Too many files (max %d per request)", h.cfg.MaxFiles)})
	}

	uploaded := make([]model.Photo, 0, len(files))
	for _, fh := range files {
		photo, err := h.saveUpload(fh)
		if err != nil {
			log.Printf("Error: Upload of %s failed: %v", fh.Filename, err)
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		uploaded = append(uploaded, photo)
	}

	log.Printf("Upload completed: %d photos", len(uploaded))
	return c.JSON(http.StatusOK, uploaded)
}

func (h *Handler) saveUpload(fh *multipart.FileHeader) (model.Photo, error) {
	if fh.Size > h.cfg.MaxSizeToBytes() {
		return model.Photo{}, fmt.Errorf("file too large (max %s)", utils.FormatFileSize(h.cfg.MaxSizeToBytes()))
	}

	src, err := fh.Open()
	if err != nil {
		return model.Photo{}, fmt.Errorf("failed to read upload: %w", err)
	}
	defer src.Close()

	mt, err := mimetype.DetectReader(src)
	if err != nil {
		return model.Photo{}, fmt.Errorf("failed to detect file type: %w", err)
	}
	if !isAllowedImage(mt) {
		return model.Photo{}, fmt.Errorf("invalid file type %s, only JPEG, PNG and WebP are allowed", mt.String())
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return model.Photo{}, fmt.Errorf("failed to rewind upload: %w", err)
	}

	storedName, err := storedFilename(fh.Filename)
	if err != nil {
		return model.Photo{}, err
	}

	path := filepath.Join(h.store.UploadsDir(), storedName)
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return model.Photo{}, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	size, err := io.Copy(dst, io.LimitReader(src, h.cfg.MaxSizeToBytes()))
	if err != nil {
		os.Remove(path)
		return model.Photo{}, fmt.Errorf("failed to save file: %w", err)
	}

	photo, err := h.store.CreatePhoto(fh.Filename, "/uploads/"+storedName)
	if err != nil {
		// Don't leave bytes behind that the index knows nothing about
		if rmErr := os.Remove(path); rmErr != nil {
			log.Printf("Warning: Failed to clean up file after metadata error: %v", rmErr)
		}
		return model.Photo{}, fmt.Errorf("failed to store metadata: %w", err)
	}

	log.Printf("Uploaded: %s (%s) as %s", fh.Filename, utils.FormatFileSize(size), storedName)
	return photo, nil
}

func isAllowedImage(mt *mimetype.MIME) bool {
	return mt.Is("image/jpeg") || mt.Is("image/png") || mt.Is("image/webp")
}

// storedFilename builds a unique on-disk name, keeping the original
// extension so slideshow clients can rely on it.
func storedFilename(original string) (string, error) {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("failed to generate random suffix: %w", err)
	}
	suffix := binary.BigEndian.Uint32(buf[:]) % 1_000_000_000
	return fmt.Sprintf("%d-%09d%s", time.Now().UnixMilli(), suffix, filepath.Ext(original)), nil
}
