package flightvk

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	vk "github.com/vulkan-go/vulkan"
)

// vulkanClip flips Y and maps depth from [-1, 1] to [0, 1], so GL style
// projections from mgl32 land in Vulkan clip space.
var vulkanClip = mgl32.Mat4{
	1, 0, 0, 0,
	0, -1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// VulkanProjection converts a GL style projection to a Vulkan one.
func VulkanProjection(proj mgl32.Mat4) mgl32.Mat4 {
	return vulkanClip.Mul4(proj)
}

// Uniforms is the per-frame uniform block at binding 0, laid out as three
// column-major mat4 in the vertex shader.
type Uniforms struct {
	Model      mgl32.Mat4
	View       mgl32.Mat4
	Projection mgl32.Mat4
}

// UniformSize is the byte size of Uniforms on the GPU.
const UniformSize = vk.DeviceSize(unsafe.Sizeof(Uniforms{}))

// Camera orbits the mesh around its vertical axis.
type Camera struct {
	Eye    mgl32.Vec3
	Target mgl32.Vec3
	FovY   float32
	Speed  float32 // radians per second
}

func DefaultCamera() Camera {
	return Camera{
		Eye:    mgl32.Vec3{2, 2, 2},
		Target: mgl32.Vec3{0, 0, 0},
		FovY:   mgl32.DegToRad(45),
		Speed:  mgl32.DegToRad(45),
	}
}

// Uniforms returns the matrices for elapsed seconds and the given extent.
func (c Camera) Uniforms(elapsed float64, extent vk.Extent2D) Uniforms {
	aspect := float32(1)
	if extent.Height > 0 {
		aspect = float32(extent.Width) / float32(extent.Height)
	}
	return Uniforms{
		Model:      mgl32.HomogRotate3D(float32(elapsed)*c.Speed, mgl32.Vec3{0, 1, 0}),
		View:       mgl32.LookAtV(c.Eye, c.Target, mgl32.Vec3{0, 1, 0}),
		Projection: VulkanProjection(mgl32.Perspective(c.FovY, aspect, 0.1, 100)),
	}
}

// Bytes returns the raw uniform block.
func (u *Uniforms) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(u)), UniformSize)
}
