// Package gpu is the accelerated backend. Rectangle commands are
// accumulated into batches and dispatched as compute passes through
// gogpu/wgpu; text and image commands composite through the same
// raster helpers the software backend uses, so both backends stay
// pixel-equivalent.
//
// Init fails cleanly on machines without a compatible device; the
// selection policy then falls back to the software backend.
package gpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"go.uber.org/zap"

	// Register the Vulkan backend via its init().
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/agiangrant/facet/backend"
)

// Name is the backend identifier.
const Name = "gpu"

// Renderer executes command lists with GPU rect batching.
type Renderer struct {
	mu  sync.Mutex
	log *zap.Logger

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline

	gpuReady bool
}

var _ backend.Backend = (*Renderer)(nil)

// New creates the accelerated backend. log may be nil.
func New(log *zap.Logger) backend.Backend {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{log: log.Named(Name)}
}

func (r *Renderer) Name() string { return Name }

// Accelerated reports whether the device opened successfully.
func (r *Renderer) Accelerated() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gpuReady
}

// Init opens the adapter, device and queue and builds the rect
// pipeline. Failures wrap backend.ErrInitFailed so selection falls
// back to software.
func (r *Renderer) Init() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gpuReady {
		return nil
	}
	if err := r.initGPU(); err != nil {
		return fmt.Errorf("%w: %w", backend.ErrInitFailed, err)
	}
	return nil
}

func (r *Renderer) initGPU() error {
	hb, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("vulkan backend not available")
	}
	instance, err := hb.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	r.instance = instance

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		r.instance = nil
		return fmt.Errorf("no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		r.instance = nil
		return fmt.Errorf("open device: %w", err)
	}
	r.device = openDev.Device
	r.queue = openDev.Queue

	if err := r.createPipeline(); err != nil {
		r.device.Destroy()
		r.device = nil
		r.queue = nil
		instance.Destroy()
		r.instance = nil
		return err
	}
	r.gpuReady = true
	r.log.Info("accelerated backend initialized", zap.String("adapter", selected.Info.Name))
	return nil
}

func (r *Renderer) createPipeline() error {
	shader, err := r.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "rect_batch",
		Source: hal.ShaderSource{WGSL: rectShaderSource},
	})
	if err != nil {
		return fmt.Errorf("compile rect shader: %w", err)
	}
	r.shader = shader

	bindLayout, err := r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "rect_batch_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	r.bindLayout = bindLayout

	pipeLayout, err := r.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "rect_batch_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{r.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	r.pipeLayout = pipeLayout

	pipeline, err := r.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:   "rect_batch_pipeline",
		Layout:  r.pipeLayout,
		Compute: hal.ComputeState{Module: r.shader, EntryPoint: "main"},
	})
	if err != nil {
		return fmt.Errorf("create compute pipeline: %w", err)
	}
	r.pipeline = pipeline
	return nil
}

// Close releases GPU resources. The renderer is unusable afterwards.
func (r *Renderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pipeline != nil {
		r.device.DestroyComputePipeline(r.pipeline)
		r.pipeline = nil
	}
	if r.pipeLayout != nil {
		r.device.DestroyPipelineLayout(r.pipeLayout)
		r.pipeLayout = nil
	}
	if r.bindLayout != nil {
		r.device.DestroyBindGroupLayout(r.bindLayout)
		r.bindLayout = nil
	}
	if r.shader != nil {
		r.device.DestroyShaderModule(r.shader)
		r.shader = nil
	}
	if r.device != nil {
		r.device.Destroy()
		r.device = nil
	}
	if r.instance != nil {
		r.instance.Destroy()
		r.instance = nil
	}
	r.queue = nil
	r.gpuReady = false
}
