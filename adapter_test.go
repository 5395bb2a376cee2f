package vkboot

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func TestScore(t *testing.T) {
	discrete := AdapterProperties{Type: vk.PhysicalDeviceTypeDiscreteGpu, MaxImageDimension2D: 16384}
	integrated := AdapterProperties{Type: vk.PhysicalDeviceTypeIntegratedGpu, MaxImageDimension2D: 16384}
	cpu := AdapterProperties{Type: vk.PhysicalDeviceTypeCpu, MaxImageDimension2D: 8192}

	assert.Equal(t, 1000+16384, Score(discrete))
	assert.Equal(t, 16384, Score(integrated))
	assert.Equal(t, 8192, Score(cpu))
	assert.Greater(t, Score(discrete), Score(integrated))

	smaller := discrete
	smaller.MaxImageDimension2D = 4096
	assert.Less(t, Score(smaller), Score(discrete))
}

func TestEnumerateAdapters(t *testing.T) {
	rec := &recorder{}
	rt := newFakeRuntime(rec)
	inst := &fakeInstance{rt: rt}

	_, err := EnumerateAdapters(inst)
	assert.ErrorIs(t, err, ErrNoAdapter)

	rt.adaptersErr = errors.New("device lost")
	_, err = EnumerateAdapters(inst)
	assert.ErrorIs(t, err, ErrRuntimeInitialization)

	rt.adaptersErr = nil
	rt.adapters = []Adapter{newFakeAdapter(rec, "gpu", true, 4096)}
	adapters, err := EnumerateAdapters(inst)
	require.NoError(t, err)
	assert.Len(t, adapters, 1)
}

func TestSelectAdapterPrefersHighestScore(t *testing.T) {
	rec := &recorder{}
	integrated := newFakeAdapter(rec, "integrated", false, 8192)
	discrete := newFakeAdapter(rec, "discrete", true, 8192)

	sel, err := SelectAdapter([]Adapter{integrated, discrete}, vk.NullSurface, []string{SwapchainExtension}, nil)
	require.NoError(t, err)
	assert.Same(t, discrete, sel.Adapter)
	assert.Equal(t, 9192, sel.Score)
	assert.Equal(t, "discrete", sel.Properties.Name)
	assert.True(t, sel.Roles.Complete())
	assert.True(t, sel.Support.Adequate())
}

func TestSelectAdapterTieTakesFirst(t *testing.T) {
	rec := &recorder{}
	first := newFakeAdapter(rec, "first", true, 4096)
	second := newFakeAdapter(rec, "second", true, 4096)

	sel, err := SelectAdapter([]Adapter{first, second}, vk.NullSurface, []string{SwapchainExtension}, nil)
	require.NoError(t, err)
	assert.Same(t, first, sel.Adapter)
}

func TestSelectAdapterNoFallbackToRunnerUp(t *testing.T) {
	rec := &recorder{}
	best := newFakeAdapter(rec, "best", true, 16384)
	best.extensions = nil
	runnerUp := newFakeAdapter(rec, "runner-up", false, 4096)

	_, err := SelectAdapter([]Adapter{best, runnerUp}, vk.NullSurface, []string{SwapchainExtension}, nil)
	assert.ErrorIs(t, err, ErrNoSuitableAdapter)
	assert.Contains(t, err.Error(), "best")
	assert.Contains(t, err.Error(), SwapchainExtension)
}

func TestSelectAdapterRejectsNonPositiveScore(t *testing.T) {
	a := newFakeAdapter(&recorder{}, "null", false, 0)

	_, err := SelectAdapter([]Adapter{a}, vk.NullSurface, []string{SwapchainExtension}, nil)
	assert.ErrorIs(t, err, ErrNoSuitableAdapter)
}

func TestSelectAdapterEmpty(t *testing.T) {
	_, err := SelectAdapter(nil, vk.NullSurface, nil, nil)
	assert.ErrorIs(t, err, ErrNoAdapter)
}

func TestCheckAdapter(t *testing.T) {
	tests := []struct {
		name   string
		modify func(a *fakeAdapter)
	}{
		{"no present family", func(a *fakeAdapter) { a.present = nil }},
		{"no graphics family", func(a *fakeAdapter) { a.families = []QueueFamily{transferFamily()} }},
		{"missing swapchain extension", func(a *fakeAdapter) { a.extensions = []string{"VK_KHR_maintenance1"} }},
		{"no formats", func(a *fakeAdapter) { a.support.Formats = nil }},
		{"no present modes", func(a *fakeAdapter) { a.support.PresentModes = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newFakeAdapter(&recorder{}, "gpu", true, 4096)
			tt.modify(a)
			_, _, err := CheckAdapter(a, vk.NullSurface, []string{SwapchainExtension})
			assert.ErrorIs(t, err, ErrNoSuitableAdapter)
		})
	}

	a := newFakeAdapter(&recorder{}, "gpu", true, 4096)
	roles, support, err := CheckAdapter(a, vk.NullSurface, []string{SwapchainExtension})
	require.NoError(t, err)
	assert.True(t, roles.Complete())
	assert.Same(t, a.support, support)
}
