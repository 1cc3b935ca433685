package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"os/exec"
	"sync"

	"github.com/yildizm/ColorSeason/internal/season"
)

// DefaultDevice is the camera device checked before running the capture command
const DefaultDevice = "/dev/video0"

// DefaultCommand grabs a single PNG frame from a V4L2 device on stdout
var DefaultCommand = []string{
	"ffmpeg", "-loglevel", "error",
	"-f", "v4l2", "-i", DefaultDevice,
	"-frames:v", "1", "-f", "image2pipe", "-vcodec", "png", "-",
}

// FrameSource yields the current still image on demand
type FrameSource interface {
	Frame(ctx context.Context) (image.Image, error)
}

// Camera is a FrameSource holding a device. Close is idempotent.
type Camera interface {
	FrameSource
	Close() error
}

// CameraOpener acquires a camera. Open may block while the device starts.
type CameraOpener interface {
	Open(ctx context.Context) (Camera, error)
}

// CommandCamera acquires frames by running an external capture command that
// writes one encoded image to stdout.
type CommandCamera struct {
	Device  string
	Command []string
}

// NewCommandCamera creates a command camera, filling in defaults
func NewCommandCamera(device string, command []string) *CommandCamera {
	if device == "" {
		device = DefaultDevice
	}
	if len(command) == 0 {
		command = DefaultCommand
	}
	return &CommandCamera{Device: device, Command: command}
}

// Open checks that the device is present and accessible and that the
// capture command can be found.
func (c *CommandCamera) Open(ctx context.Context) (Camera, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if c.Device != "" {
		f, err := os.Open(c.Device)
		if err != nil {
			return nil, season.NewPermissionError(c.Device, err)
		}
		_ = f.Close()
	}

	if len(c.Command) == 0 {
		return nil, season.NewPermissionError(c.Device, errors.New("no capture command configured"))
	}
	if _, err := exec.LookPath(c.Command[0]); err != nil {
		return nil, season.NewPermissionError(c.Device, err)
	}

	return &commandSession{device: c.Device, command: c.Command}, nil
}

type commandSession struct {
	device  string
	command []string

	mu     sync.Mutex
	closed bool
}

func (s *commandSession) Frame(ctx context.Context) (image.Image, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return nil, season.NewCaptureError("camera is closed", nil)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.command[0], s.command[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, season.NewPermissionError(s.device, err)
		}
		return nil, season.NewCaptureError("capture command failed", fmt.Errorf("%w: %s", err, bytes.TrimSpace(stderr.Bytes())))
	}
	if stdout.Len() == 0 {
		return nil, season.NewCaptureError("no frame available", nil)
	}

	img, _, err := image.Decode(&stdout)
	if err != nil {
		return nil, season.NewCaptureError("failed to decode camera frame", err)
	}
	return img, nil
}

func (s *commandSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// ImageSource is a FrameSource over a fixed image, used for still files and
// tests.
type ImageSource struct {
	Image image.Image
}

// Frame returns the fixed image
func (s *ImageSource) Frame(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Image == nil {
		return nil, season.NewCaptureError("no frame available", nil)
	}
	return s.Image, nil
}

// Close is a no-op so ImageSource can stand in for a Camera
func (s *ImageSource) Close() error { return nil }

// ImageFileSource loads a still image from disk
func ImageFileSource(path string) (*ImageSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return &ImageSource{Image: img}, nil
}
