package media

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"log/slog"
	"os"
	"strings"

	"gocv.io/x/gocv"
)

// CameraAcquirer opens local webcams through OpenCV.
type CameraAcquirer struct {
	Logger *slog.Logger
}

// NewCameraAcquirer returns an acquirer for local video devices.
func NewCameraAcquirer(logger *slog.Logger) *CameraAcquirer {
	return &CameraAcquirer{Logger: logger}
}

type openResult struct {
	cam *gocv.VideoCapture
	err error
}

// Acquire opens the device selected by c and starts streaming frames. The
// device is opened on a separate goroutine so ctx can abandon a slow
// permission prompt; a device opened after cancellation is closed.
func (a *CameraAcquirer) Acquire(ctx context.Context, c Constraints) (Stream, error) {
	idx := c.deviceIndex()
	device := fmt.Sprintf("camera %d", idx)
	ch := make(chan openResult, 1)
	go func() {
		cam, err := gocv.VideoCaptureDevice(idx)
		ch <- openResult{cam: cam, err: err}
	}()

	var res openResult
	select {
	case res = <-ch:
	case <-ctx.Done():
		go func() {
			if late := <-ch; late.cam != nil {
				_ = late.cam.Close()
			}
		}()
		return nil, &Error{Kind: KindDeviceUnavailable, Device: device, Err: ctx.Err()}
	}
	if res.err != nil {
		return nil, classifyOpenError(idx, device, res.err)
	}
	if res.cam == nil || !res.cam.IsOpened() {
		if res.cam != nil {
			_ = res.cam.Close()
		}
		return nil, classifyOpenError(idx, device, errors.New("device not opened"))
	}

	cam := res.cam
	if c.IdealWidth > 0 {
		cam.Set(gocv.VideoCaptureFrameWidth, float64(c.IdealWidth))
	}
	if c.IdealHeight > 0 {
		cam.Set(gocv.VideoCaptureFrameHeight, float64(c.IdealHeight))
	}
	if a.Logger != nil {
		a.Logger.Info("camera acquired", "device", idx, "facing", string(c.Facing),
			"ideal_width", c.IdealWidth, "ideal_height", c.IdealHeight)
	}

	mat := gocv.NewMat()
	grab := func() (*image.RGBA, error) {
		if ok := cam.Read(&mat); !ok {
			return nil, errors.New("camera read failed")
		}
		if mat.Empty() {
			return nil, nil
		}
		img, err := mat.ToImage()
		if err != nil {
			return nil, fmt.Errorf("convert frame: %w", err)
		}
		return asRGBA(img), nil
	}
	release := func() error {
		merr := mat.Close()
		cerr := cam.Close()
		return errors.Join(merr, cerr)
	}
	return NewStream(device, grab, release, 0, a.Logger), nil
}

// classifyOpenError distinguishes a refused permission from a missing device.
// OpenCV reports both as a failed open, so the device node is probed where
// the platform exposes one.
func classifyOpenError(idx int, device string, err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "permission") || strings.Contains(msg, "not authorized") {
		return &Error{Kind: KindPermissionDenied, Device: device, Err: err}
	}
	node := fmt.Sprintf("/dev/video%d", idx)
	if f, ferr := os.Open(node); ferr != nil {
		if os.IsPermission(ferr) {
			return &Error{Kind: KindPermissionDenied, Device: device, Err: ferr}
		}
	} else {
		_ = f.Close()
	}
	return &Error{Kind: KindDeviceUnavailable, Device: device, Err: err}
}

// asRGBA returns img as *image.RGBA, copying only when needed.
func asRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
