package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mariusw/photoframe/internal/config"
	"github.com/mariusw/photoframe/internal/model"
)

// ErrPhotoNotFound is returned by operations that reference an unknown photo id.
var ErrPhotoNotFound = errors.New("photo not found")

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// Store is the single owner of on-disk photo metadata. The index is held in
// memory as an ordered list and rewritten wholesale to the record file on
// every mutation. One mutex serializes every read-modify-persist cycle.
type Store struct {
	mu sync.Mutex

	photos []model.Photo

	dbPath          string
	uploadsDir      string
	licensePath     string
	firstLaunchPath string

	licenseKey     string
	firstLaunch    time.Time
	hasFirstLaunch bool
}

// Open initializes the store and runs the startup sequence: ensure the
// uploads directory, load the record file, reconcile against the directory,
// sweep the trash, then load the license key and first-launch sidecars.
func Open(cfg *config.Config) (*Store, error) {
	s := &Store{
		dbPath:          cfg.DBPath,
		uploadsDir:      cfg.UploadPath,
		licensePath:     cfg.LicensePath,
		firstLaunchPath: cfg.FirstLaunchPath,
	}

	if err := os.MkdirAll(s.uploadsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory %s: %w", s.uploadsDir, err)
	}

	s.loadIndex()

	if err := s.reconcile(); err != nil {
		log.Printf("Warning: Reconciliation failed: %v", err)
	}

	if err := s.sweepTrash(); err != nil {
		log.Printf("Warning: Trash sweep failed: %v", err)
	}

	s.loadLicenseKey()

	if err := s.loadFirstLaunchDate(); err != nil {
		return nil, err
	}

	return s, nil
}

// loadIndex reads the record file into memory. A missing or corrupt file is
// not fatal: the store falls back to an empty index and persists it, favoring
// availability over strict consistency on boot.
func (s *Store) loadIndex() {
	data, err := os.ReadFile(s.dbPath)
	if err != nil {
		log.Printf("Record file not found, creating new one at %s", s.dbPath)
		s.photos = []model.Photo{}
		if err := s.persist(); err != nil {
			log.Printf("Warning: Failed to create record file: %v", err)
		}
		return
	}

	var photos []model.Photo
	if err := json.Unmarshal(data, &photos); err != nil {
		log.Printf("Warning: Record file %s is corrupt, starting with empty index: %v", s.dbPath, err)
		s.photos = []model.Photo{}
		if err := s.persist(); err != nil {
			log.Printf("Warning: Failed to rewrite record file: %v", err)
		}
		return
	}

	s.photos = photos
	log.Printf("Record file loaded: %d photos", len(s.photos))
}

// reconcile aligns the index with the actual contents of the uploads
// directory: files on disk with no record are adopted, records whose backing
// file is gone are dropped. Persists only if something changed.
func (s *Store) reconcile() error {
	entries, err := os.ReadDir(s.uploadsDir)
	if err != nil {
		return fmt.Errorf("failed to read uploads directory: %w", err)
	}

	onDisk := make(map[string]bool)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			onDisk[entry.Name()] = true
		}
	}

	indexed := make(map[string]bool, len(s.photos))
	for _, p := range s.photos {
		indexed[filepath.Base(p.Filepath)] = true
	}

	changed := false

	for name := range onDisk {
		if indexed[name] {
			continue
		}
		uploadedAt := time.Now()
		if info, err := os.Stat(filepath.Join(s.uploadsDir, name)); err == nil {
			uploadedAt = info.ModTime()
		}
		s.photos = append(s.photos, model.Photo{
			ID:         uuid.NewString(),
			Filename:   name,
			Filepath:   "/uploads/" + name,
			UploadedAt: uploadedAt,
		})
		log.Printf("Adopted orphaned file: %s", name)
		changed = true
	}

	kept := s.photos[:0]
	for _, p := range s.photos {
		if onDisk[filepath.Base(p.Filepath)] {
			kept = append(kept, p)
		} else {
			log.Printf("Removing stale record for missing file: %s", p.Filename)
			changed = true
		}
	}
	s.photos = kept

	if changed {
		return s.persist()
	}
	return nil
}

// sweepTrash permanently deletes every record flagged inTrash, removing the
// backing file best-effort. Runs once per process startup.
func (s *Store) sweepTrash() error {
	swept := false
	kept := s.photos[:0]
	for _, p := range s.photos {
		if !p.InTrash {
			kept = append(kept, p)
			continue
		}
		path := filepath.Join(s.uploadsDir, filepath.Base(p.Filepath))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("Warning: Failed to delete trashed file %s: %v", p.Filename, err)
		} else {
			log.Printf("Trash sweep deleted: %s", p.Filename)
		}
		swept = true
	}
	s.photos = kept

	if swept {
		return s.persist()
	}
	return nil
}

func (s *Store) loadLicenseKey() {
	data, err := os.ReadFile(s.licensePath)
	if err != nil {
		log.Printf("No license key found (FREE version)")
		return
	}
	s.licenseKey = strings.TrimSpace(string(data))
	log.Printf("License key loaded")
}

// loadFirstLaunchDate reads the trial anchor, stamping it with the current
// time on the very first boot. This is the one startup write that must
// succeed: without it the trial clock has no anchor.
func (s *Store) loadFirstLaunchDate() error {
	data, err := os.ReadFile(s.firstLaunchPath)
	if err == nil {
		t, perr := time.Parse(time.RFC3339, strings.TrimSpace(string(data)))
		if perr == nil {
			s.firstLaunch = t
			s.hasFirstLaunch = true
			log.Printf("First launch: %s", t.Format(time.RFC3339))
			return nil
		}
		log.Printf("Warning: Invalid first-launch date %q: %v", strings.TrimSpace(string(data)), perr)
	}

	now := time.Now()
	if err := s.writeFirstLaunchDate(now); err != nil {
		return fmt.Errorf("failed to record first launch date: %w", err)
	}
	log.Printf("Trial started: %s", now.Format(time.RFC3339))
	return nil
}

// persist rewrites the full record file. Callers hold the mutex.
func (s *Store) persist() error {
	data, err := json.MarshalIndent(s.photos, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode record file: %w", err)
	}
	if err := os.WriteFile(s.dbPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write record file: %w", err)
	}
	return nil
}

// AllPhotos returns every indexed record, trashed ones included, sorted by
// upload time newest first. Records with equal timestamps keep insertion
// order.
func (s *Store) AllPhotos() []model.Photo {
	s.mu.Lock()
	defer s.mu.Unlock()

	photos := make([]model.Photo, len(s.photos))
	copy(photos, s.photos)
	sort.SliceStable(photos, func(i, j int) bool {
		return photos[i].UploadedAt.After(photos[j].UploadedAt)
	})
	return photos
}

// ActivePhotos returns the non-trashed records, newest first.
func (s *Store) ActivePhotos() []model.Photo {
	all := s.AllPhotos()
	active := all[:0]
	for _, p := range all {
		if !p.InTrash {
			active = append(active, p)
		}
	}
	return active
}

// Photo looks up a record by id.
func (s *Store) Photo(id string) (model.Photo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		return s.photos[i], true
	}
	return model.Photo{}, false
}

// CreatePhoto inserts a new record for an already-stored file and persists
// the index. The caller is responsible for having written the bytes under a
// collision-resistant name before calling this.
func (s *Store) CreatePhoto(filename, path string) (model.Photo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	photo := model.Photo{
		ID:         uuid.NewString(),
		Filename:   filename,
		Filepath:   path,
		UploadedAt: time.Now(),
	}
	s.photos = append(s.photos, photo)

	if err := s.persist(); err != nil {
		return model.Photo{}, err
	}
	return photo, nil
}

// DeletePhoto removes a record from the index and persists. It never touches
// the filesystem; removing the backing file is the caller's job.
func (s *Store) DeletePhoto(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	s.photos = append(s.photos[:i], s.photos[i+1:]...)

	if err := s.persist(); err != nil {
		return false, err
	}
	return true, nil
}

// MoveToTrash flags a record for deletion at the next startup sweep. The
// backing file is left in place so the photo can still be restored.
func (s *Store) MoveToTrash(id string) (model.Photo, error) {
	return s.setTrash(id, true)
}

// RestoreFromTrash clears the trash flag.
func (s *Store) RestoreFromTrash(id string) (model.Photo, error) {
	return s.setTrash(id, false)
}

func (s *Store) setTrash(id string, inTrash bool) (model.Photo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Photo{}, ErrPhotoNotFound
	}
	s.photos[i].InTrash = inTrash

	if err := s.persist(); err != nil {
		return model.Photo{}, err
	}
	return s.photos[i], nil
}

// EmptyTrash immediately deletes every trashed record and its backing file,
// returning how many were removed. A record whose file cannot be unlinked
// stays in the index so the bytes are not re-adopted as a fresh photo on the
// next boot; the index is persisted once at the end.
func (s *Store) EmptyTrash() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	kept := s.photos[:0]
	for _, p := range s.photos {
		if !p.InTrash {
			kept = append(kept, p)
			continue
		}
		path := filepath.Join(s.uploadsDir, filepath.Base(p.Filepath))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("Warning: Failed to delete file %s: %v", p.Filename, err)
			kept = append(kept, p)
			continue
		}
		log.Printf("Deleted from trash: %s", p.Filename)
		deleted++
	}
	s.photos = kept

	if deleted > 0 {
		if err := s.persist(); err != nil {
			return deleted, err
		}
	}
	return deleted, nil
}

// SaveLicenseKey persists the trimmed key to its sidecar file and keeps the
// in-memory copy in sync.
func (s *Store) SaveLicenseKey(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	trimmed := strings.TrimSpace(key)
	if err := os.WriteFile(s.licensePath, []byte(trimmed), 0o644); err != nil {
		return fmt.Errorf("failed to save license key: %w", err)
	}
	s.licenseKey = trimmed
	return nil
}

// LicenseKey returns the stored key, or empty when none exists.
func (s *Store) LicenseKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.licenseKey
}

// FirstLaunchDate returns the trial anchor date. The second return is false
// only when the sidecar could never be written.
func (s *Store) FirstLaunchDate() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.firstLaunch, s.hasFirstLaunch
}

// SetFirstLaunchDate overrides the trial anchor. Only the test endpoints use
// this; the normal lifecycle writes the date exactly once.
func (s *Store) SetFirstLaunchDate(t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeFirstLaunchDate(t)
}

func (s *Store) writeFirstLaunchDate(t time.Time) error {
	if err := os.WriteFile(s.firstLaunchPath, []byte(t.Format(time.RFC3339)), 0o644); err != nil {
		return fmt.Errorf("failed to write first launch date: %w", err)
	}
	s.firstLaunch = t
	s.hasFirstLaunch = true
	return nil
}

// UploadsDir exposes the directory the store reconciles against, for the
// upload and delete routes that manage the actual bytes.
func (s *Store) UploadsDir() string {
	return s.uploadsDir
}

func (s *Store) indexOf(id string) int {
	for i := range s.photos {
		if s.photos[i].ID == id {
			return i
		}
	}
	return -1
}
