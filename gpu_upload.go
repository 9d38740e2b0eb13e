package lumen

import (
	"fmt"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

// GPUBuffers owns one storage buffer per light kind, sized once for the
// engine's full capacity so the bindings never need recreating. Upload
// copies the live prefix of each packed array; the device and queue belong
// to the host's renderer.
type GPUBuffers struct {
	queue *wgpu.Queue

	Points *wgpu.Buffer
	Spots  *wgpu.Buffer
	Rects  *wgpu.Buffer
}

func NewGPUBuffers(device *wgpu.Device, queue *wgpu.Queue, capacity int) (*GPUBuffers, error) {
	g := &GPUBuffers{queue: queue}

	usage := wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst
	mk := func(label string, stride uintptr) (*wgpu.Buffer, error) {
		return device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: label,
			Size:  uint64(stride) * uint64(capacity),
			Usage: usage,
		})
	}

	var err error
	if g.Points, err = mk("lumen point lights", unsafe.Sizeof(PointLightData{})); err != nil {
		return nil, fmt.Errorf("creating point light buffer: %w", err)
	}
	if g.Spots, err = mk("lumen spot lights", unsafe.Sizeof(SpotLightData{})); err != nil {
		g.Release()
		return nil, fmt.Errorf("creating spot light buffer: %w", err)
	}
	if g.Rects, err = mk("lumen rect lights", unsafe.Sizeof(RectLightData{})); err != nil {
		g.Release()
		return nil, fmt.Errorf("creating rect light buffer: %w", err)
	}
	return g, nil
}

// Upload pushes this frame's packed records to the GPU. Call after
// Engine.Update; kinds with no live lights are skipped.
func (g *GPUBuffers) Upload(e *Engine) error {
	if pts := e.PointLightBuffer(); len(pts) > 0 {
		if err := g.queue.WriteBuffer(g.Points, 0, wgpu.ToBytes(pts)); err != nil {
			return fmt.Errorf("uploading point lights: %w", err)
		}
	}
	if spots := e.SpotLightBuffer(); len(spots) > 0 {
		if err := g.queue.WriteBuffer(g.Spots, 0, wgpu.ToBytes(spots)); err != nil {
			return fmt.Errorf("uploading spot lights: %w", err)
		}
	}
	if rects := e.RectLightBuffer(); len(rects) > 0 {
		if err := g.queue.WriteBuffer(g.Rects, 0, wgpu.ToBytes(rects)); err != nil {
			return fmt.Errorf("uploading rect lights: %w", err)
		}
	}
	return nil
}

func (g *GPUBuffers) Release() {
	if g.Points != nil {
		g.Points.Release()
		g.Points = nil
	}
	if g.Spots != nil {
		g.Spots.Release()
		g.Spots = nil
	}
	if g.Rects != nil {
		g.Rects.Release()
		g.Rects = nil
	}
}
