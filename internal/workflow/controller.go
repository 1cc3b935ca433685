// Package workflow implements the capture-to-result state machine. The
// Controller owns every piece of workflow state; collaborators run inside
// tea.Cmd functions and report back through completion messages, so all
// mutation happens on the goroutine calling Update.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/yildizm/ColorSeason/internal/capture"
	"github.com/yildizm/ColorSeason/internal/countdown"
	"github.com/yildizm/ColorSeason/internal/logger"
	"github.com/yildizm/ColorSeason/internal/season"
)

// ViewState is the active screen
type ViewState int

const (
	ViewHome ViewState = iota
	ViewSelectMode
	ViewCapturing
	ViewPreview
	ViewProcessing
	ViewResult
)

func (v ViewState) String() string {
	switch v {
	case ViewHome:
		return "home"
	case ViewSelectMode:
		return "select_mode"
	case ViewCapturing:
		return "capturing"
	case ViewPreview:
		return "preview"
	case ViewProcessing:
		return "processing"
	case ViewResult:
		return "result"
	default:
		return fmt.Sprintf("view(%d)", int(v))
	}
}

// InputMode is how the image is obtained
type InputMode int

const (
	ModeCamera InputMode = iota
	ModeUpload
)

func (m InputMode) String() string {
	if m == ModeUpload {
		return "upload"
	}
	return "camera"
}

// Capturer turns a frame source into an encoded image
type Capturer interface {
	Capture(ctx context.Context, src capture.FrameSource) (*capture.EncodedImage, error)
}

// UploadReader validates and reads a file chosen by the user
type UploadReader interface {
	ReadUpload(path string) (*capture.EncodedImage, error)
}

// Analyzer classifies an image
type Analyzer interface {
	Analyze(ctx context.Context, img *capture.EncodedImage) (*season.AnalysisResult, error)
}

// OutfitFetcher returns outfit image URLs for a query
type OutfitFetcher interface {
	FetchMatches(ctx context.Context, query season.OutfitQuery) ([]string, error)
}

// Config holds the controller settings
type Config struct {
	CountdownSeconds  int
	CountdownInterval time.Duration
	PageSize          int

	// ServiceURL is named in the alert raised after a failed analysis
	ServiceURL string
}

// DefaultConfig returns the standard settings
func DefaultConfig() Config {
	return Config{
		CountdownSeconds:  countdown.DefaultSeconds,
		CountdownInterval: countdown.DefaultInterval,
		PageSize:          DefaultPageSize,
		ServiceURL:        "http://localhost:8000",
	}
}

// Deps are the collaborators the controller drives
type Deps struct {
	Camera   capture.CameraOpener
	Engine   Capturer
	Uploads  UploadReader
	Analyzer Analyzer
	Outfits  OutfitFetcher
	Log      *logger.Logger
}

// Controller is the workflow state machine. It is not safe for concurrent
// use: call Update from a single goroutine, as bubbletea does.
type Controller struct {
	cfg  Config
	deps Deps
	log  *logger.Logger

	view         ViewState
	mode         InputMode
	image        *capture.EncodedImage
	result       *season.AnalysisResult
	err          error
	alert        string
	selectedPath string

	timer *countdown.Timer

	camera        capture.Camera
	cameraSeq     uint64
	cameraOpening bool
	cameraCancel  context.CancelFunc

	captureSeq    uint64
	capturing     bool
	captureCancel context.CancelFunc

	uploadSeq uint64
	uploading bool

	analysisSeq    uint64
	analysisCancel context.CancelFunc

	outfits      *OutfitPanel
	outfitSeq    uint64
	outfitCancel context.CancelFunc
}

// New creates a controller in the Home state
func New(cfg Config, deps Deps) *Controller {
	if cfg.CountdownSeconds < 0 {
		cfg.CountdownSeconds = countdown.DefaultSeconds
	}
	if cfg.PageSize < 1 {
		cfg.PageSize = DefaultPageSize
	}
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}

	return &Controller{
		cfg:     cfg,
		deps:    deps,
		log:     log.WithOperation("session", uuid.NewString()),
		view:    ViewHome,
		mode:    ModeCamera,
		timer:   countdown.New(cfg.CountdownInterval),
		outfits: NewOutfitPanel(cfg.PageSize),
	}
}

// View returns the current view state
func (c *Controller) View() ViewState { return c.view }

// Mode returns the selected input mode
func (c *Controller) Mode() InputMode { return c.mode }

// Image returns the captured or uploaded image, nil before one exists
func (c *Controller) Image() *capture.EncodedImage { return c.image }

// Result returns the latest analysis result
func (c *Controller) Result() *season.AnalysisResult { return c.result }

// Err returns the error shown in the current view, if any
func (c *Controller) Err() error { return c.err }

// Alert returns the pending alert text
func (c *Controller) Alert() string { return c.alert }

// SelectedPath returns the uploaded file path
func (c *Controller) SelectedPath() string { return c.selectedPath }

// Outfits returns the outfit panel of the result view
func (c *Controller) Outfits() *OutfitPanel { return c.outfits }

// ServiceURL returns the classification service base URL
func (c *Controller) ServiceURL() string { return c.cfg.ServiceURL }

// ErrorMessage returns the user-facing text of the current error
func (c *Controller) ErrorMessage() string {
	return season.Message(c.err)
}

// Countdown returns the digit to display, zero when no countdown runs
func (c *Controller) Countdown() int { return c.timer.Remaining() }

// CameraReady reports whether a camera is held
func (c *Controller) CameraReady() bool { return c.camera != nil }

// CameraOpening reports whether a camera is being acquired
func (c *Controller) CameraOpening() bool { return c.cameraOpening }

// Busy reports whether a capture or upload read is in flight
func (c *Controller) Busy() bool {
	return c.capturing || c.uploading || c.timer.Running()
}

// Update applies msg and returns the follow-up command, if any. It is the
// only way controller state changes.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case GetStartedMsg:
		if c.view == ViewHome {
			c.setView(ViewSelectMode)
		}
		return nil

	case ChooseCameraMsg:
		if c.view != ViewSelectMode && c.view != ViewCapturing {
			return nil
		}
		return c.enterCapturing(ModeCamera)

	case ChooseUploadMsg:
		if c.view != ViewSelectMode && c.view != ViewCapturing {
			return nil
		}
		return c.enterCapturing(ModeUpload)

	case CaptureRequestedMsg:
		if c.view != ViewCapturing || c.mode != ModeCamera || c.capturing {
			return nil
		}
		return c.timer.Start(c.cfg.CountdownSeconds)

	case countdown.TickMsg:
		cmd, ev := c.timer.Update(msg)
		if ev == countdown.EventDone {
			return c.startCapture()
		}
		return cmd

	case FileSelectedMsg:
		return c.handleFileSelected(msg.Path)

	case RetakeMsg:
		if c.view != ViewPreview {
			return nil
		}
		return c.enterCapturing(c.mode)

	case AcceptMsg:
		if c.view != ViewPreview || c.image == nil {
			return nil
		}
		c.setView(ViewProcessing)
		return c.startAnalysis()

	case RestartMsg:
		if c.view != ViewResult {
			return nil
		}
		c.cancelOutfits()
		c.result = nil
		c.outfits.Reset()
		return c.enterCapturing(c.mode)

	case BackToSelectMsg:
		c.reset(ViewSelectMode)
		return nil

	case BackToHomeMsg:
		c.reset(ViewHome)
		return nil

	case SetGenderMsg:
		if c.view != ViewResult || !c.outfits.SetGender(msg.Gender) {
			return nil
		}
		return c.fetchOutfits()

	case NextPageMsg:
		if c.view == ViewResult {
			c.outfits.NextPage()
		}
		return nil

	case PrevPageMsg:
		if c.view == ViewResult {
			c.outfits.PrevPage()
		}
		return nil

	case OpenOutfitMsg:
		if c.view == ViewResult {
			c.outfits.Open(msg.Index)
		}
		return nil

	case CloseOutfitMsg:
		c.outfits.Close()
		return nil

	case DismissAlertMsg:
		c.alert = ""
		return nil

	case cameraOpenedMsg:
		c.handleCameraOpened(msg)
		return nil

	case captureDoneMsg:
		c.handleCaptureDone(msg)
		return nil

	case uploadDoneMsg:
		c.handleUploadDone(msg)
		return nil

	case analysisDoneMsg:
		return c.handleAnalysisDone(msg)

	case outfitsDoneMsg:
		c.handleOutfitsDone(msg)
		return nil
	}

	return nil
}

// Close cancels the countdown, aborts in-flight requests and releases the camera
func (c *Controller) Close() {
	c.cancelAll()
	c.releaseCamera()
}

func (c *Controller) setView(v ViewState) {
	if c.view == v {
		return
	}
	c.log.DebugWithFields("transition", []logger.Field{
		logger.F("from", c.view.String()),
		logger.F("to", v.String()),
		logger.F("mode", c.mode.String()),
	})
	c.view = v
}

// enterCapturing moves to Capturing with a clean slate for mode
func (c *Controller) enterCapturing(mode InputMode) tea.Cmd {
	c.cancelCapture()
	c.mode = mode
	c.image = nil
	c.err = nil
	c.selectedPath = ""
	c.setView(ViewCapturing)

	if mode == ModeCamera {
		return c.acquireCamera()
	}
	c.releaseCamera()
	return nil
}

// reset returns to a navigation view, dropping everything in flight
func (c *Controller) reset(target ViewState) {
	c.cancelAll()
	c.releaseCamera()
	c.image = nil
	c.result = nil
	c.err = nil
	c.alert = ""
	c.selectedPath = ""
	c.outfits.Reset()
	c.setView(target)
}

func (c *Controller) cancelCapture() {
	c.timer.Cancel()

	c.captureSeq++
	c.capturing = false
	if c.captureCancel != nil {
		c.captureCancel()
		c.captureCancel = nil
	}

	c.uploadSeq++
	c.uploading = false
}

func (c *Controller) cancelAnalysis() {
	c.analysisSeq++
	if c.analysisCancel != nil {
		c.analysisCancel()
		c.analysisCancel = nil
	}
}

func (c *Controller) cancelOutfits() {
	c.outfitSeq++
	if c.outfitCancel != nil {
		c.outfitCancel()
		c.outfitCancel = nil
	}
}

func (c *Controller) cancelAll() {
	c.cancelCapture()
	c.cancelAnalysis()
	c.cancelOutfits()
}

func (c *Controller) acquireCamera() tea.Cmd {
	if c.camera != nil || c.cameraOpening {
		return nil
	}
	if c.deps.Camera == nil {
		c.err = season.NewPermissionError("", errors.New("no camera configured"))
		return nil
	}

	c.cameraSeq++
	c.cameraOpening = true
	ctx, cancel := context.WithCancel(context.Background())
	c.cameraCancel = cancel

	opener := c.deps.Camera
	seq := c.cameraSeq
	return func() tea.Msg {
		cam, err := opener.Open(ctx)
		return cameraOpenedMsg{seq: seq, camera: cam, err: err}
	}
}

func (c *Controller) releaseCamera() {
	c.cameraSeq++
	c.cameraOpening = false
	if c.cameraCancel != nil {
		c.cameraCancel()
		c.cameraCancel = nil
	}
	if c.camera == nil {
		return
	}
	if err := c.camera.Close(); err != nil {
		c.log.WarnWithFields("failed to release camera", []logger.Field{logger.Error(err)})
	}
	c.camera = nil
	c.log.Debug("camera released")
}

func (c *Controller) handleCameraOpened(msg cameraOpenedMsg) {
	if msg.seq != c.cameraSeq || c.view != ViewCapturing || c.mode != ModeCamera {
		// acquired after the user moved on
		if msg.camera != nil {
			_ = msg.camera.Close()
		}
		return
	}

	c.cameraOpening = false
	if c.cameraCancel != nil {
		c.cameraCancel()
		c.cameraCancel = nil
	}

	if msg.err != nil {
		if !season.IsPermissionError(msg.err) {
			msg.err = season.NewPermissionError("", msg.err)
		}
		c.err = msg.err
		c.log.WarnWithFields("camera unavailable", []logger.Field{logger.Error(msg.err)})
		return
	}

	c.camera = msg.camera
	c.log.Debug("camera acquired")
}

func (c *Controller) startCapture() tea.Cmd {
	if c.view != ViewCapturing || c.mode != ModeCamera {
		return nil
	}

	c.captureSeq++
	if c.camera == nil {
		c.err = season.NewCaptureError("camera is not ready", nil)
		return nil
	}
	if c.deps.Engine == nil {
		c.err = season.NewCaptureError("failed to create capture canvas", errors.New("no capture engine"))
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.captureCancel = cancel
	c.capturing = true

	engine := c.deps.Engine
	cam := c.camera
	seq := c.captureSeq
	return func() tea.Msg {
		img, err := engine.Capture(ctx, cam)
		return captureDoneMsg{seq: seq, image: img, err: err}
	}
}

func (c *Controller) handleCaptureDone(msg captureDoneMsg) {
	if msg.seq != c.captureSeq || c.view != ViewCapturing || c.mode != ModeCamera {
		return
	}
	c.capturing = false
	if c.captureCancel != nil {
		c.captureCancel()
		c.captureCancel = nil
	}

	if msg.err != nil || msg.image == nil {
		err := msg.err
		if err == nil {
			err = season.NewCaptureError("no frame available", nil)
		} else if season.TypeOf(err) == "" {
			err = season.NewCaptureError("failed to capture image", err)
		}
		c.err = err
		c.log.WarnWithFields("capture failed", []logger.Field{logger.Error(err)})
		return
	}

	c.image = msg.image
	c.err = nil
	c.releaseCamera()
	c.setView(ViewPreview)
}

func (c *Controller) handleFileSelected(path string) tea.Cmd {
	if c.view != ViewCapturing || c.mode != ModeUpload {
		return nil
	}
	path = strings.TrimSpace(path)
	if path == "" || c.deps.Uploads == nil {
		return nil
	}

	c.selectedPath = path
	c.uploadSeq++
	c.uploading = true

	reader := c.deps.Uploads
	seq := c.uploadSeq
	return func() tea.Msg {
		img, err := reader.ReadUpload(path)
		return uploadDoneMsg{seq: seq, path: path, image: img, err: err}
	}
}

func (c *Controller) handleUploadDone(msg uploadDoneMsg) {
	if msg.seq != c.uploadSeq || c.view != ViewCapturing || c.mode != ModeUpload {
		return
	}
	c.uploading = false

	if msg.err != nil || msg.image == nil {
		err := msg.err
		if err == nil || season.TypeOf(err) == "" {
			err = season.NewValidationError("file", msg.path, season.MsgFileUnreadable)
		}
		c.err = err
		c.log.WarnWithFields("upload rejected", []logger.Field{logger.F("path", msg.path), logger.Error(msg.err)})
		return
	}

	c.image = msg.image
	c.err = nil
	c.setView(ViewPreview)
}

func (c *Controller) startAnalysis() tea.Cmd {
	c.cancelAnalysis()
	if c.deps.Analyzer == nil {
		err := season.NewNetworkAnalysisError(errors.New("no analysis client"))
		seq := c.analysisSeq
		return func() tea.Msg { return analysisDoneMsg{seq: seq, err: err} }
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.analysisCancel = cancel

	analyzer := c.deps.Analyzer
	img := c.image
	seq := c.analysisSeq
	return func() tea.Msg {
		result, err := analyzer.Analyze(ctx, img)
		return analysisDoneMsg{seq: seq, result: result, err: err}
	}
}

func (c *Controller) handleAnalysisDone(msg analysisDoneMsg) tea.Cmd {
	if msg.seq != c.analysisSeq || c.view != ViewProcessing {
		return nil
	}
	if c.analysisCancel != nil {
		c.analysisCancel()
		c.analysisCancel = nil
	}

	if msg.err != nil || msg.result == nil {
		err := msg.err
		if err == nil {
			err = season.NewNetworkAnalysisError(errors.New("empty analysis result"))
		} else if !season.IsAnalysisError(err) {
			err = season.NewNetworkAnalysisError(err)
		}
		c.err = err
		c.alert = AlertText(season.Message(err), c.cfg.ServiceURL)
		c.log.WarnWithFields("analysis failed", []logger.Field{logger.Error(err)})
		c.setView(ViewCapturing)
		if c.mode == ModeCamera {
			return c.acquireCamera()
		}
		return nil
	}

	c.result = msg.result
	c.err = nil
	c.outfits.Reset()
	c.setView(ViewResult)
	c.log.InfoWithFields("analysis result", []logger.Field{
		logger.F("season", msg.result.Season),
		logger.F("confidence", msg.result.Confidence),
	})
	return c.fetchOutfits()
}

func (c *Controller) fetchOutfits() tea.Cmd {
	c.cancelOutfits()
	if c.deps.Outfits == nil || c.result == nil {
		c.outfits.setImages(nil)
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.outfitCancel = cancel
	c.outfits.beginFetch()

	fetcher := c.deps.Outfits
	query := season.NewOutfitQuery(c.result, c.outfits.Gender())
	seq := c.outfitSeq
	return func() tea.Msg {
		images, err := fetcher.FetchMatches(ctx, query)
		return outfitsDoneMsg{seq: seq, query: query, images: images, err: err}
	}
}

func (c *Controller) handleOutfitsDone(msg outfitsDoneMsg) {
	if msg.seq != c.outfitSeq || c.view != ViewResult {
		return
	}
	if c.outfitCancel != nil {
		c.outfitCancel()
		c.outfitCancel = nil
	}

	if msg.err != nil {
		err := msg.err
		if !season.IsOutfitFetchError(err) {
			err = season.NewOutfitFetchError(0, err)
		}
		c.outfits.setError(err)
		c.log.WarnWithFields("outfit fetch failed", []logger.Field{
			logger.F("gender", string(msg.query.Gender)),
			logger.Error(err),
		})
		return
	}

	c.outfits.setImages(msg.images)
	c.log.DebugWithFields("outfits loaded", []logger.Field{
		logger.Count(len(msg.images)),
		logger.F("gender", string(msg.query.Gender)),
	})
}

// AlertText is the blocking alert shown after a failed analysis
func AlertText(message, serviceURL string) string {
	return fmt.Sprintf("Analysis Error: %s\n\nPlease ensure:\n- The API server is running at %s\n- Your image is valid\n- You have internet connection",
		message, serviceURL)
}
