package vkboot

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// Version is a semantic version packed the way the runtime expects.
type Version struct {
	Major int `toml:"major"`
	Minor int `toml:"minor"`
	Patch int `toml:"patch"`
}

func (v Version) Packed() uint32 {
	return vk.MakeVersion(v.Major, v.Minor, v.Patch)
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Application describes the program to the runtime at instance creation.
type Application struct {
	Name          string  `toml:"name"`
	EngineName    string  `toml:"engine_name"`
	Version       Version `toml:"version"`
	EngineVersion Version `toml:"engine_version"`
	APIVersion    Version `toml:"api_version"`
}

// Info builds the application descriptor passed with the instance request.
func (a Application) Info() *vk.ApplicationInfo {
	return &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		PApplicationName:   safeString(a.Name),
		ApplicationVersion: a.Version.Packed(),
		PEngineName:        safeString(a.EngineName),
		EngineVersion:      a.EngineVersion.Packed(),
		ApiVersion:         a.APIVersion.Packed(),
	}
}
