package flightvk

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/flightvk/asset"
)

// MeshBuffer is one device-local buffer holding the vertices followed by the
// uint32 indices. The index data starts at VertexBytes.
type MeshBuffer struct {
	Buffer      *Buffer
	VertexBytes vk.DeviceSize
	IndexCount  uint32
}

// CreateMesh uploads the interleaved vertices and indices of mesh.
func (f *Factory) CreateMesh(vertices []asset.Vertex, indices []uint32) (*MeshBuffer, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return nil, errors.Wrap(asset.ErrMalformedMesh, "empty mesh")
	}
	vertexData := asset.VertexBytes(vertices)
	data := append(vertexData, asset.IndexBytes(indices)...)
	buf, err := f.UploadBuffer(data,
		vk.BufferUsageFlags(vk.BufferUsageVertexBufferBit|vk.BufferUsageIndexBufferBit))
	if err != nil {
		return nil, errors.Wrap(err, "mesh buffer")
	}
	return &MeshBuffer{
		Buffer:      buf,
		VertexBytes: vk.DeviceSize(len(vertexData)),
		IndexCount:  uint32(len(indices)),
	}, nil
}

// Bind records the vertex and index buffer bindings.
func (m *MeshBuffer) Bind(driver Driver, cmd vk.CommandBuffer) {
	driver.CmdBindVertexBuffer(cmd, m.Buffer.Handle, 0)
	driver.CmdBindIndexBuffer(cmd, m.Buffer.Handle, m.VertexBytes)
}

func (m *MeshBuffer) Destroy() {
	if m == nil {
		return
	}
	m.Buffer.Destroy()
}
