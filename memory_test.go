package flightvk

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

func TestFindMemoryType(t *testing.T) {
	var props vk.PhysicalDeviceMemoryProperties
	props.MemoryTypeCount = 3
	props.MemoryTypes[0].PropertyFlags = vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit)
	props.MemoryTypes[1].PropertyFlags = vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit)
	props.MemoryTypes[2].PropertyFlags = vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit)
	hostCoherent := vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit)

	tests := []struct {
		name     string
		typeBits uint32
		required vk.MemoryPropertyFlags
		want     uint32
		err      bool
	}{
		{"first match", 0x7, vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit), 1, false},
		{"all flags required", 0x7, hostCoherent, 2, false},
		{"type bits exclude", 0x3, hostCoherent, 0, true},
		{"no flags", 0x4, 0, 2, false},
		{"beyond type count", 0x8, 0, 0, true},
		{"no bits", 0, 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindMemoryType(props, tt.typeBits, tt.required)
			if tt.err {
				if !errors.Is(err, ErrNoCompatibleMemoryType) {
					t.Fatalf("error %v", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("index %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCreateBufferNoCompatibleMemory(t *testing.T) {
	f := newFakeDriver()
	f.typeBits = 0x1
	factory, _ := newTestFactory(t, f)

	_, err := factory.CreateBuffer(64, vk.BufferUsageFlags(vk.BufferUsageUniformBufferBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit))
	if !errors.Is(err, ErrNoCompatibleMemoryType) {
		t.Fatalf("error %v", err)
	}
	if f.count("AllocateMemory") != 0 {
		t.Error("memory allocated without a compatible type")
	}
	if f.liveCount("buffer") != 0 {
		t.Error("buffer leaked")
	}
}

func TestCreateImageNoCompatibleMemory(t *testing.T) {
	f := newFakeDriver()
	f.typeBits = 0x2
	factory, _ := newTestFactory(t, f)

	spec := ImageSpec{
		Extent: vk.Extent2D{Width: 64, Height: 64},
		Type:   vk.ImageType2d,
		Format: TextureFormat,
		Tiling: vk.ImageTilingOptimal,
		Usage:  vk.ImageUsageFlags(vk.ImageUsageSampledBit | vk.ImageUsageTransferDstBit),
	}
	_, err := factory.CreateImage(spec, vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit))
	if !errors.Is(err, ErrNoCompatibleMemoryType) {
		t.Fatalf("error %v", err)
	}
	if f.count("AllocateMemory") != 0 {
		t.Error("memory allocated without a compatible type")
	}
	if f.count("CreateImage") != 1 || f.liveCount("image") != 0 {
		t.Errorf("image leaked: %d created, %d alive", f.count("CreateImage"), f.liveCount("image"))
	}
}

func TestCreateImageBindFailure(t *testing.T) {
	f := newFakeDriver()
	f.fail["BindImageMemory"] = 1
	factory, _ := newTestFactory(t, f)

	spec := ImageSpec{Extent: vk.Extent2D{Width: 4, Height: 4}, Type: vk.ImageType2d, Format: TextureFormat}
	if _, err := factory.CreateImage(spec, 0); !errors.Is(err, errFake) {
		t.Fatalf("error %v", err)
	}
	if f.liveCount("image") != 0 || f.liveCount("memory") != 0 {
		t.Error("failed image left objects behind")
	}
}

func TestCreateBufferBindFailure(t *testing.T) {
	f := newFakeDriver()
	f.fail["BindBufferMemory"] = 1
	factory, _ := newTestFactory(t, f)

	if _, err := factory.CreateBuffer(64, 0, 0); !errors.Is(err, errFake) {
		t.Fatalf("error %v", err)
	}
	if f.liveCount("buffer") != 0 || f.liveCount("memory") != 0 {
		t.Errorf("leaked %d buffers, %d allocations", f.liveCount("buffer"), f.liveCount("memory"))
	}
}

func TestBufferWrite(t *testing.T) {
	f := newFakeDriver()
	factory, _ := newTestFactory(t, f)
	buf, err := factory.CreateBuffer(8, vk.BufferUsageFlags(vk.BufferUsageUniformBufferBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		t.Fatal(err)
	}
	if err := buf.Write([]byte{1, 2, 3, 4}); err != nil {
		t.Fatal(err)
	}
	if err := buf.Write([]byte{9, 9}); err != nil {
		t.Fatal(err)
	}
	if got := f.mapped(buf.Memory); !bytes.Equal(got, []byte{9, 9, 3, 4, 0, 0, 0, 0}) {
		t.Errorf("memory %v", got)
	}
	if f.count("MapMemory") != 1 {
		t.Errorf("mapped %d times", f.count("MapMemory"))
	}
	if err := buf.Write(make([]byte, 9)); err == nil {
		t.Error("overflowing write accepted")
	}

	buf.Destroy()
	buf.Destroy()
	if f.count("UnmapMemory") != 1 || f.liveCount("buffer") != 0 || f.liveCount("memory") != 0 {
		t.Errorf("destroy left %v", f.live)
	}
}

func TestUploadBuffer(t *testing.T) {
	f := newFakeDriver()
	factory, _ := newTestFactory(t, f)

	buf, err := factory.UploadBuffer([]byte("vertex data!"), vk.BufferUsageFlags(vk.BufferUsageVertexBufferBit))
	if err != nil {
		t.Fatal(err)
	}
	if buf.Size != 12 {
		t.Errorf("size %d", buf.Size)
	}
	if f.count("CmdCopyBuffer") != 1 || f.count("QueueWaitIdle") != 1 {
		t.Errorf("calls %v", f.calls)
	}
	if f.liveCount("buffer") != 1 || f.liveCount("memory") != 1 {
		t.Error("staging buffer outlived the upload")
	}
	if f.liveCount("commandbuffer") != 0 {
		t.Error("one-shot command buffer not freed")
	}
	buf.Destroy()
}

func TestUploadBufferSubmitFailure(t *testing.T) {
	f := newFakeDriver()
	f.fail["QueueSubmit"] = 1
	factory, _ := newTestFactory(t, f)

	if _, err := factory.UploadBuffer([]byte{1, 2, 3, 4}, 0); !errors.Is(err, errFake) {
		t.Fatalf("error %v", err)
	}
	for _, kind := range []string{"buffer", "memory", "commandbuffer"} {
		if n := f.liveCount(kind); n != 0 {
			t.Errorf("%d %s leaked", n, kind)
		}
	}
}
