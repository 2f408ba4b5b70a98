package filestore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pianoscribe/pianoscribe/model"
)

// Manager owns the uploads/ and outputs/ directories for the server.
// Every filesystem touch for a job goes through here.
type Manager struct {
	uploadsDir string
	outputsDir string
	maxAge     time.Duration
}

func NewManager(baseDir string, maxAge time.Duration) *Manager {
	m := &Manager{
		uploadsDir: filepath.Join(baseDir, "uploads"),
		outputsDir: filepath.Join(baseDir, "outputs"),
		maxAge:     maxAge,
	}
	if err := os.MkdirAll(m.uploadsDir, 0777); err != nil {
		panic("Could not create uploads dir: " + err.Error())
	}
	if err := os.MkdirAll(m.outputsDir, 0777); err != nil {
		panic("Could not create outputs dir: " + err.Error())
	}
	return m
}

// NewJob returns a fresh 8-character hex job id.
func (m *Manager) NewJob() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}

// SaveUpload stores raw upload bytes as uploads/<jobId><ext>.
func (m *Manager) SaveUpload(jobId string, filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	dest := filepath.Join(m.uploadsDir, jobId+ext)
	if err := os.WriteFile(dest, data, 0666); err != nil {
		return "", err
	}
	return dest, nil
}

// UploadPath finds the stored upload for a job, or "" if none exists.
func (m *Manager) UploadPath(jobId string) string {
	matches, err := filepath.Glob(filepath.Join(m.uploadsDir, jobId+".*"))
	if err != nil || len(matches) == 0 {
		return ""
	}
	return matches[0]
}

func (m *Manager) MidiPath(jobId string) string {
	return filepath.Join(m.outputsDir, jobId+".mid")
}

func (m *Manager) AbcPath(jobId string) string {
	return filepath.Join(m.outputsDir, jobId+".abc")
}

func (m *Manager) MetaPath(jobId string) string {
	return filepath.Join(m.outputsDir, jobId+".json")
}

func (m *Manager) SaveJobMeta(jobId string, meta model.TranscribeResponse) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.MetaPath(jobId), data, 0666)
}

// LoadJobMeta returns nil without error when the job is unknown.
func (m *Manager) LoadJobMeta(jobId string) (*model.TranscribeResponse, error) {
	data, err := os.ReadFile(m.MetaPath(jobId))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var meta model.TranscribeResponse
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// OutputPath resolves a requested output filename, or "" when the
// name tries to escape outputs/ or the file does not exist.
func (m *Manager) OutputPath(filename string) string {
	if strings.ContainsAny(filename, "/\\") || strings.Contains(filename, "..") {
		return ""
	}
	candidate := filepath.Join(m.outputsDir, filename)
	if _, err := os.Stat(candidate); err != nil {
		return ""
	}
	return candidate
}

// CleanupJob removes a job's upload; outputs stay downloadable.
func (m *Manager) CleanupJob(jobId string) {
	if path := m.UploadPath(jobId); path != "" {
		os.Remove(path)
	}
}

// CleanupStale deletes files older than maxAge in both directories
// and returns how many were removed.
func (m *Manager) CleanupStale() int {
	cutoff := time.Now().Add(-m.maxAge)
	removed := 0
	for _, dir := range []string{m.uploadsDir, m.outputsDir} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			if info.ModTime().Before(cutoff) {
				if os.Remove(filepath.Join(dir, entry.Name())) == nil {
					removed++
				}
			}
		}
	}
	return removed
}

// CleanupAll wipes every file in uploads/ and outputs/.
func (m *Manager) CleanupAll() {
	for _, dir := range []string{m.uploadsDir, m.outputsDir} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				os.Remove(filepath.Join(dir, entry.Name()))
			}
		}
	}
}
