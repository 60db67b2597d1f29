package gpu

import (
	"fmt"
	"time"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/agiangrant/facet/backend"
)

// dispatchGPU uploads the surface and the batch, runs one compute pass
// per shape so each pass observes the previous blend result, then reads
// the composited pixels back into dst.
func (r *Renderer) dispatchGPU(batch []rectShape, dst *backend.Surface) error {
	w, h := uint32(dst.W), uint32(dst.H)
	pixelCount := dst.W * dst.H
	pixelBufSize := uint64(pixelCount * 4)
	shapesBytes := packShapes(batch)
	packedPixels := packPixels(dst.Pix, pixelCount)

	shapesBuf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "rect_shapes", Size: uint64(len(shapesBytes)),
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create shapes buffer: %w", err)
	}
	defer r.device.DestroyBuffer(shapesBuf)

	storageBuf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "rect_pixels", Size: pixelBufSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create storage buffer: %w", err)
	}
	defer r.device.DestroyBuffer(storageBuf)

	stagingBuf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "rect_staging", Size: pixelBufSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create staging buffer: %w", err)
	}
	defer r.device.DestroyBuffer(stagingBuf)

	r.queue.WriteBuffer(shapesBuf, 0, shapesBytes)
	r.queue.WriteBuffer(storageBuf, 0, packedPixels)

	uniformBufs, bindGroups, err := r.createShapeBindings(len(batch), w, h, shapesBuf, uint64(len(shapesBytes)), storageBuf, pixelBufSize)
	defer r.cleanupBindings(uniformBufs, bindGroups)
	if err != nil {
		return err
	}

	if err := r.encodePasses(bindGroups, w, h, storageBuf, stagingBuf, pixelBufSize); err != nil {
		return err
	}

	readback := make([]byte, pixelBufSize)
	if err := r.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return fmt.Errorf("readback: %w", err)
	}
	unpackPixels(readback, dst.Pix, pixelCount)
	return nil
}

// createShapeBindings makes one uniform buffer and bind group per
// shape; the uniform carries the shape index for that pass.
func (r *Renderer) createShapeBindings(
	n int, w, h uint32,
	shapesBuf hal.Buffer, shapesSize uint64,
	storageBuf hal.Buffer, pixelBufSize uint64,
) ([]hal.Buffer, []hal.BindGroup, error) {
	paramSize := uint64(unsafe.Sizeof(frameParams{}))
	uniformBufs := make([]hal.Buffer, 0, n)
	bindGroups := make([]hal.BindGroup, 0, n)

	for i := 0; i < n; i++ {
		paramsBytes := makeFrameParams(w, h, uint32(i))

		ub, err := r.device.CreateBuffer(&hal.BufferDescriptor{
			Label: "rect_params", Size: paramSize,
			Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return uniformBufs, bindGroups, fmt.Errorf("create uniform buffer %d: %w", i, err)
		}
		uniformBufs = append(uniformBufs, ub)
		r.queue.WriteBuffer(ub, 0, paramsBytes)

		bg, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label: "rect_bind", Layout: r.bindLayout,
			Entries: []gputypes.BindGroupEntry{
				{Binding: 0, Resource: gputypes.BufferBinding{Buffer: ub.NativeHandle(), Offset: 0, Size: paramSize}},
				{Binding: 1, Resource: gputypes.BufferBinding{Buffer: shapesBuf.NativeHandle(), Offset: 0, Size: shapesSize}},
				{Binding: 2, Resource: gputypes.BufferBinding{Buffer: storageBuf.NativeHandle(), Offset: 0, Size: pixelBufSize}},
			},
		})
		if err != nil {
			return uniformBufs, bindGroups, fmt.Errorf("create bind group %d: %w", i, err)
		}
		bindGroups = append(bindGroups, bg)
	}
	return uniformBufs, bindGroups, nil
}

func (r *Renderer) cleanupBindings(uniformBufs []hal.Buffer, bindGroups []hal.BindGroup) {
	for _, bg := range bindGroups {
		if bg != nil {
			r.device.DestroyBindGroup(bg)
		}
	}
	for _, ub := range uniformBufs {
		if ub != nil {
			r.device.DestroyBuffer(ub)
		}
	}
}

// encodePasses records one compute pass per shape. Passes on the same
// storage buffer are ordered by implicit barriers, so shape i+1 blends
// over shape i's output.
func (r *Renderer) encodePasses(
	bindGroups []hal.BindGroup, w, h uint32,
	storageBuf, stagingBuf hal.Buffer, pixelBufSize uint64,
) error {
	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "rect_batch_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("rect_batch"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	for _, bg := range bindGroups {
		pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "rect_pass"})
		pass.SetPipeline(r.pipeline)
		pass.SetBindGroup(0, bg, nil)
		pass.Dispatch(workgroups(w), workgroups(h), 1)
		pass.End()
	}

	encoder.CopyBufferToBuffer(storageBuf, stagingBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: pixelBufSize},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer r.device.FreeCommandBuffer(cmdBuf)

	fence, err := r.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer r.device.DestroyFence(fence)
	if err := r.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	ok, err := r.device.Wait(fence, 1, 5*time.Second)
	if err != nil || !ok {
		return fmt.Errorf("wait for device: ok=%v err=%w", ok, err)
	}
	return nil
}
