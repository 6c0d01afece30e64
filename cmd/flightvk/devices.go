package main

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
	"github.com/xlab/tablewriter"

	"github.com/andewx/flightvk"
)

func deviceType(t vk.PhysicalDeviceType) string {
	switch t {
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return "integrated"
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return "discrete"
	case vk.PhysicalDeviceTypeVirtualGpu:
		return "virtual"
	case vk.PhysicalDeviceTypeCpu:
		return "cpu"
	}
	return "other"
}

func queueFlags(flags vk.QueueFlags) string {
	s := ""
	for _, f := range []struct {
		bit  vk.QueueFlagBits
		name string
	}{
		{vk.QueueGraphicsBit, "G"},
		{vk.QueueComputeBit, "C"},
		{vk.QueueTransferBit, "T"},
		{vk.QueueSparseBindingBit, "S"},
	} {
		if flags&vk.QueueFlags(f.bit) != 0 {
			s += f.name
		}
	}
	return s
}

func printDevices(devices []flightvk.DeviceInfo) {
	table := tablewriter.CreateTable()
	table.UTF8Box()
	table.AddTitle("PHYSICAL DEVICES")
	for i, d := range devices {
		if i > 0 {
			table.AddSeparator()
		}
		score := fmt.Sprintf("%.1f", d.Score)
		if d.Score < 0 {
			score = "not viable"
		}
		table.AddRow("Device", d.Name())
		table.AddRow("Type", deviceType(d.Properties.DeviceType))
		table.AddRow("API Version", vk.Version(d.Properties.ApiVersion))
		table.AddRow("Score", score)
		table.AddRow("Swapchain", d.HasExtension(flightvk.SwapchainExtension))
		if d.HasQueues {
			table.AddRow("Graphics / present family", fmt.Sprintf("%d / %d", d.Families.Graphics, d.Families.Present))
		}
		for j, q := range d.Queues {
			present := j < len(d.Present) && d.Present[j]
			table.AddRow(fmt.Sprintf("Queue family %d", j),
				fmt.Sprintf("%s x%d present=%v", queueFlags(q.QueueFlags), q.QueueCount, present))
		}
	}
	fmt.Println(table.Render())
}
