package flightvk

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// ResizeListener runs after the ring changed length, with the new length.
type ResizeListener func(n int) error

// Ring is the set of frame slots cycled by the executor. The cursor always
// indexes an existing slot.
type Ring struct {
	slots     []*FrameSlot
	cursor    int
	pool      *CommandPool
	manager   slotManager
	listeners []ResizeListener
}

// NewRing creates n slots. uniformSize of zero skips the per-slot uniform
// buffers, in which case factory may be nil.
func NewRing(driver Driver, device vk.Device, pool *CommandPool, n int, factory *Factory, uniformSize vk.DeviceSize) (*Ring, error) {
	if n <= 0 {
		return nil, errors.Errorf("ring length %d", n)
	}
	r := &Ring{
		pool: pool,
		manager: slotManager{
			driver:      driver,
			device:      device,
			factory:     factory,
			uniformSize: uniformSize,
		},
	}
	if err := r.grow(n); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Ring) Len() int {
	return len(r.slots)
}

func (r *Ring) Cursor() int {
	return r.cursor
}

func (r *Ring) Current() *FrameSlot {
	return r.slots[r.cursor]
}

// Slot returns slot i.
func (r *Ring) Slot(i int) *FrameSlot {
	return r.slots[i]
}

func (r *Ring) Advance() {
	r.cursor = (r.cursor + 1) % len(r.slots)
}

// OnResize registers fn to run after every effective Resize.
func (r *Ring) OnResize(fn ResizeListener) {
	r.listeners = append(r.listeners, fn)
}

// Resize changes the number of slots to n. Zero or the current length is a
// no-op that makes no driver calls. Otherwise the device is drained first,
// surviving slots keep their handles and the cursor is reset if it fell off
// the end.
func (r *Ring) Resize(n int) error {
	if n <= 0 || n == len(r.slots) {
		return nil
	}
	if err := r.manager.driver.DeviceWaitIdle(r.manager.device); err != nil {
		return errors.Wrap(err, "resize ring")
	}
	if n < len(r.slots) {
		r.shrink(n)
	} else if err := r.grow(n); err != nil {
		return err
	}
	if r.cursor >= len(r.slots) {
		r.cursor = 0
	}
	Logger().Debug("vulkan: frames in flight", "n", n)
	for _, fn := range r.listeners {
		if err := fn(n); err != nil {
			return err
		}
	}
	return nil
}

func (r *Ring) shrink(n int) {
	trailing := r.slots[n:]
	bufs := make([]vk.CommandBuffer, 0, len(trailing))
	for _, slot := range trailing {
		r.manager.release(slot)
		bufs = append(bufs, slot.Command)
	}
	r.pool.Free(bufs)
	for i := n; i < len(r.slots); i++ {
		r.slots[i] = nil
	}
	r.slots = r.slots[:n]
}

// grow appends slots up to n. A failure releases whatever this call created
// and leaves the ring at its previous length.
func (r *Ring) grow(n int) error {
	count := n - len(r.slots)
	bufs, err := r.pool.Allocate(count)
	if err != nil {
		return errors.Wrap(err, "frame command buffers")
	}
	added := make([]*FrameSlot, 0, count)
	for _, cmd := range bufs {
		slot, err := r.manager.newSlot(cmd)
		if err != nil {
			for _, s := range added {
				r.manager.release(s)
			}
			r.pool.Free(bufs)
			return err
		}
		added = append(added, slot)
	}
	r.slots = append(r.slots, added...)
	return nil
}

// Destroy drains the device and releases every slot.
func (r *Ring) Destroy() {
	if r == nil || len(r.slots) == 0 {
		return
	}
	if err := r.manager.driver.DeviceWaitIdle(r.manager.device); err != nil {
		Logger().Warn("vulkan: wait idle before ring destroy", "err", err)
	}
	r.shrink(0)
	r.cursor = 0
}
