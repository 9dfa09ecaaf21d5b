package handler

import (
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/mariusw/photoframe/internal/store"
)

// HandleListPhotos returns every photo record, newest first. Trashed photos
// are included; the client separates the grid from the trash view using the
// inTrash flag.
func (h *Handler) HandleListPhotos(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.AllPhotos())
}

// HandleGetPhoto returns a single photo record by id.
func (h *Handler) HandleGetPhoto(c echo.Context) error {
	photo, ok := h.store.Photo(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Photo not found"})
	}
	return c.JSON(http.StatusOK, photo)
}

// HandleDeletePhoto permanently deletes a photo: the route removes the
// backing file, the store removes the metadata.
func (h *Handler) HandleDeletePhoto(c echo.Context) error {
	photo, ok := h.store.Photo(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Photo not found"})
	}

	path := filepath.Join(h.store.UploadsDir(), filepath.Base(photo.Filepath))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("Error: Failed to delete file %s: %v", path, err)
	}

	deleted, err := h.store.DeletePhoto(photo.ID)
	if err != nil || !deleted {
		log.Printf("Error: Failed to delete photo %s: %v", photo.ID, err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete photo"})
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// HandleMoveToTrash flags a photo for deletion at the next startup sweep.
func (h *Handler) HandleMoveToTrash(c echo.Context) error {
	photo, err := h.store.MoveToTrash(c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrPhotoNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Photo not found"})
		}
		log.Printf("Error: Failed to move photo to trash: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to move photo to trash"})
	}
	return c.JSON(http.StatusOK, photo)
}

// HandleRestoreFromTrash clears a photo's trash flag.
func (h *Handler) HandleRestoreFromTrash(c echo.Context) error {
	photo, err := h.store.RestoreFromTrash(c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrPhotoNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Photo not found"})
		}
		log.Printf("Error: Failed to restore photo: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to restore photo"})
	}
	return c.JSON(http.StatusOK, photo)
}

// HandleEmptyTrash immediately deletes all trashed photos and their files.
func (h *Handler) HandleEmptyTrash(c echo.Context) error {
	deleted, err := h.store.EmptyTrash()
	if err != nil {
		log.Printf("Error: Failed to empty trash: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to empty trash"})
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "deletedCount": deleted})
}
