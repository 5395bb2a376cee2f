package vkboot

import (
	"log/slog"

	"github.com/docker/go-units"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// discreteBonus is added to the score of discrete adapters.
const discreteBonus = 1000

// Score ranks an adapter: a discrete adapter gets a fixed bonus, and the
// maximum 2D image dimension is added on top.
func Score(p AdapterProperties) int {
	score := 0
	if p.Discrete() {
		score += discreteBonus
	}
	return score + int(p.MaxImageDimension2D)
}

// EnumerateAdapters lists the instance's adapters and fails with
// ErrNoAdapter when there are none.
func EnumerateAdapters(inst Instance) ([]Adapter, error) {
	adapters, err := inst.Adapters()
	if err != nil {
		return nil, wrapKind(ErrRuntimeInitialization, err, "enumerate adapters")
	}
	if len(adapters) == 0 {
		return nil, kindf(ErrNoAdapter, "runtime reports zero adapters")
	}
	return adapters, nil
}

// Selection is the adapter picked for the session with everything learned
// while validating it.
type Selection struct {
	Adapter    Adapter
	Properties AdapterProperties
	Roles      QueueRoles
	Support    *SurfaceSupport
	Score      int
}

// CheckAdapter verifies the hard requirements: every queue role resolvable,
// every required device extension present, and at least one surface format
// and present mode.
func CheckAdapter(adapter Adapter, surface vk.Surface, required []string) (QueueRoles, *SurfaceSupport, error) {
	roles := ResolveQueueRoles(adapter, surface)
	if !roles.Complete() {
		return roles, nil, kindf(ErrNoSuitableAdapter, "no queue family for %v", roles.Missing())
	}

	available, err := adapter.Extensions()
	if err != nil {
		return roles, nil, wrapKind(ErrNoSuitableAdapter, err, "list device extensions")
	}
	if ok, missing := NewExtensionSet(nil, required, available).HasRequired(); !ok {
		return roles, nil, kindf(ErrNoSuitableAdapter, "missing device extensions %v", missing)
	}

	support, err := adapter.SurfaceSupport(surface)
	if err != nil {
		return roles, nil, wrapKind(ErrNoSuitableAdapter, err, "query surface support")
	}
	if !support.Adequate() {
		return roles, support, kindf(ErrNoSuitableAdapter, "surface offers %d formats and %d present modes",
			len(support.Formats), len(support.PresentModes))
	}
	return roles, support, nil
}

// SelectAdapter scores every adapter, takes the highest (the first on ties)
// and validates it. The top candidate failing validation is fatal; there is
// no fallback to the runner-up.
func SelectAdapter(adapters []Adapter, surface vk.Surface, required []string, log *slog.Logger) (*Selection, error) {
	log = loggerOrDefault(log)
	if len(adapters) == 0 {
		return nil, kindf(ErrNoAdapter, "no adapters to select from")
	}

	best := -1
	var bestScore int
	var bestProps AdapterProperties
	for i, adapter := range adapters {
		props := adapter.Properties()
		score := Score(props)
		log.Debug("adapter candidate",
			"index", i,
			"name", props.Name,
			"discrete", props.Discrete(),
			"max_image_2d", props.MaxImageDimension2D,
			"memory", units.BytesSize(float64(props.DeviceLocalMemory)),
			"score", score)
		if best < 0 || score > bestScore {
			best, bestScore, bestProps = i, score, props
		}
	}
	if bestScore <= 0 {
		return nil, kindf(ErrNoSuitableAdapter, "best adapter %q scored %d", bestProps.Name, bestScore)
	}

	adapter := adapters[best]
	roles, support, err := CheckAdapter(adapter, surface, required)
	if err != nil {
		return nil, errors.WithMessagef(err, "adapter %q", bestProps.Name)
	}

	log.Info("adapter selected",
		"name", bestProps.Name,
		"score", bestScore,
		"memory", units.BytesSize(float64(bestProps.DeviceLocalMemory)),
		"graphics_family", roles.Graphics(),
		"present_family", roles.Present())

	return &Selection{
		Adapter:    adapter,
		Properties: bestProps,
		Roles:      roles,
		Support:    support,
		Score:      bestScore,
	}, nil
}
