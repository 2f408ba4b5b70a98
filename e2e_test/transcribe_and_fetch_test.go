//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pianoscribe/pianoscribe/cmd"
	"github.com/pianoscribe/pianoscribe/midifile"
	"github.com/pianoscribe/pianoscribe/model"
)

var router http.Handler
var fixtureMidi string

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "pianoscribe-e2e")
	if err != nil {
		panic(err.Error())
	}

	os.Setenv("DATA_PATH", filepath.Join(dir, "data"))
	cmd.InitServe()
	router = cmd.NewRouter()

	// middle C for half a second at 120 bpm
	fixtureMidi = filepath.Join(dir, "fixture.mid")
	events := []model.NoteEvent{
		{StartTime: 0, EndTime: 0.5, Pitch: 60, Velocity: 100},
	}
	if err := midifile.WriteFile(fixtureMidi, events, 120); err != nil {
		panic(err.Error())
	}

	exitVal := m.Run()
	os.RemoveAll(dir)
	os.Exit(exitVal)
}

func createUploadRequest(path string) *http.Request {
	data, err := os.ReadFile(path)
	if err != nil {
		panic(err.Error())
	}

	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		panic(err.Error())
	}
	fw.Write(data)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/transcribe", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestTranscribeAndFetchE2E(t *testing.T) {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, createUploadRequest(fixtureMidi))

	assert := assert.New(t)
	assert.Equal(200, w.Result().StatusCode)

	var res model.TranscribeResponse
	respBody, _ := io.ReadAll(w.Result().Body)
	if err := json.Unmarshal(respBody, &res); err != nil {
		panic(err.Error())
	}

	assert.Len(res.JobId, 8)
	assert.Equal("/api/files/"+res.JobId+".mid", res.MidiUrl)
	assert.Equal("/api/files/"+res.JobId+".abc", res.AbcUrl)
	assert.Equal(1, res.Summary.NumNotes)
	assert.Equal([]string{"C4", "C4"}, res.Summary.PitchRange)

	// job metadata is fetchable afterwards
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/jobs/"+res.JobId, nil))
	assert.Equal(200, w.Result().StatusCode)

	var meta model.TranscribeResponse
	respBody, _ = io.ReadAll(w.Result().Body)
	if err := json.Unmarshal(respBody, &meta); err != nil {
		panic(err.Error())
	}
	assert.Equal(res, meta)

	// and so is the rendered score
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, res.AbcUrl, nil))
	assert.Equal(200, w.Result().StatusCode)

	abcText, _ := io.ReadAll(w.Result().Body)
	assert.True(strings.HasPrefix(string(abcText), "X:1\n"))
	assert.Contains(string(abcText), "C2|]")
}

func TestUnknownJobReturns404(t *testing.T) {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/jobs/deadbeef", nil))

	assert.Equal(t, 404, w.Result().StatusCode)
}

func TestUnsupportedUploadRejected(t *testing.T) {
	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("file", "recording.wav")
	if err != nil {
		panic(err.Error())
	}
	fw.Write([]byte("RIFF"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/transcribe", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert := assert.New(t)
	assert.Equal(400, w.Result().StatusCode)

	var errRes model.ErrorResponse
	respBody, _ := io.ReadAll(w.Result().Body)
	if err := json.Unmarshal(respBody, &errRes); err != nil {
		panic(err.Error())
	}
	assert.Contains(errRes.Error, "Unsupported format")
}
