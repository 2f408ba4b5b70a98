package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bep/debounce"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/pianoscribe/pianoscribe/abc"
	"github.com/pianoscribe/pianoscribe/constants"
	"github.com/pianoscribe/pianoscribe/db"
	"github.com/pianoscribe/pianoscribe/filestore"
	"github.com/pianoscribe/pianoscribe/midifile"
	"github.com/pianoscribe/pianoscribe/model"
	"github.com/pianoscribe/pianoscribe/summary"
)

var fm *filestore.Manager
var debouncedCleanup func(func())

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the transcription HTTP server",
	Long:  `Runs the transcription HTTP server`,
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

// InitServe prepares the file store. Split out of serve so the e2e
// tests can set up handlers without binding a port.
func InitServe() {
	fm = filestore.NewManager(constants.GetDataDir(), constants.MaxStaleAge)
	if removed := fm.CleanupStale(); removed > 0 {
		fmt.Printf("Cleaned up %v stale file(s) from previous sessions\n", removed)
	}
	debouncedCleanup = debounce.New(time.Minute)
}

// NewRouter wires the API routes.
func NewRouter() *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/api/transcribe", HandleTranscribe).Methods("POST")
	router.HandleFunc("/api/jobs/{jobId}", HandleGetJob).Methods("GET")
	router.HandleFunc("/api/files/{filename}", HandleGetFile).Methods("GET")
	return router
}

func writeError(w http.ResponseWriter, detail string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: detail})
}

func HandleTranscribe(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, "Missing file field", 400)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".mid" && ext != ".midi" {
		writeError(w, fmt.Sprintf("Unsupported format '%v'. Supported: .mid, .midi", ext), 400)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, "Could not read upload: "+err.Error(), 500)
		return
	}

	jobId := fm.NewJob()
	uploadPath, err := fm.SaveUpload(jobId, header.Filename, data)
	if err != nil {
		writeError(w, "Could not save upload: "+err.Error(), 500)
		return
	}

	parsed, err := midifile.ReadFile(uploadPath)
	if err != nil {
		fm.CleanupJob(jobId)
		writeError(w, "Could not parse MIDI: "+err.Error(), 400)
		return
	}
	events := midifile.NoteEvents(parsed)
	bpm := midifile.DetectBPM(parsed)

	title := r.FormValue("title")
	if title == "" {
		if meta := db.GetTrackMetadata(header.Filename); meta != nil {
			title = meta.Title
		}
	}

	text, err := abc.Render(events, abc.Options{Title: title, BPM: bpm})
	if err != nil {
		fm.CleanupJob(jobId)
		writeError(w, "Conversion failed: "+err.Error(), 500)
		return
	}

	if err := midifile.WriteFile(fm.MidiPath(jobId), events, bpm); err != nil {
		fm.CleanupJob(jobId)
		writeError(w, "Could not write MIDI output: "+err.Error(), 500)
		return
	}
	if err := os.WriteFile(fm.AbcPath(jobId), []byte(text), 0666); err != nil {
		fm.CleanupJob(jobId)
		writeError(w, "Could not write ABC output: "+err.Error(), 500)
		return
	}

	// uploaded audio is no longer needed; outputs stay downloadable
	fm.CleanupJob(jobId)
	debouncedCleanup(func() {
		if removed := fm.CleanupStale(); removed > 0 {
			fmt.Printf("Cleaned up %v stale file(s)\n", removed)
		}
	})

	res := model.TranscribeResponse{
		JobId:   jobId,
		MidiUrl: "/api/files/" + jobId + ".mid",
		AbcUrl:  "/api/files/" + jobId + ".abc",
		Summary: summary.Build(events),
	}
	if err := fm.SaveJobMeta(jobId, res); err != nil {
		fmt.Printf("Could not save job meta for %v: %v\n", jobId, err)
	}
	json.NewEncoder(w).Encode(res)
}

func HandleGetJob(w http.ResponseWriter, r *http.Request) {
	jobId := mux.Vars(r)["jobId"]
	meta, err := fm.LoadJobMeta(jobId)
	if err != nil {
		writeError(w, "Could not load job: "+err.Error(), 500)
		return
	}
	if meta == nil {
		writeError(w, "Job not found", 404)
		return
	}
	json.NewEncoder(w).Encode(meta)
}

func HandleGetFile(w http.ResponseWriter, r *http.Request) {
	filename := mux.Vars(r)["filename"]
	path := fm.OutputPath(filename)
	if path == "" {
		writeError(w, "File not found", 404)
		return
	}
	http.ServeFile(w, r, path)
}

func serve() {
	InitServe()
	handler := cors.Default().Handler(NewRouter())
	addr := ":" + constants.GetPort()
	fmt.Printf("Listening on %v\n", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
