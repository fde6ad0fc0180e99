package device

import "fmt"

// Identity is an immutable snapshot of a device's hardware and
// software fingerprint. It is loaded once, validated, and then only
// read when constructing outbound requests.
type Identity struct {
	UserReadableName     string   `toml:"userreadablename"`
	CellOperator         string   `toml:"celloperator"`
	SimOperator          string   `toml:"simoperator"`
	Roaming              string   `toml:"roaming"`
	Client               string   `toml:"client"`
	TouchScreen          int32    `toml:"touchscreen"`
	Keyboard             int32    `toml:"keyboard"`
	Navigation           int32    `toml:"navigation"`
	ScreenLayout         int32    `toml:"screenlayout"`
	HasHardKeyboard      bool     `toml:"hashardkeyboard"`
	HasFiveWayNavigation bool     `toml:"hasfivewaynavigation"`
	Platforms            []string `toml:"platforms"`
	SharedLibraries      []string `toml:"sharedlibraries"`
	Features             []string `toml:"features"`
	Locales              []string `toml:"locales"`

	Build   Build   `toml:"build"`
	Screen  Screen  `toml:"screen"`
	GL      GL      `toml:"gl"`
	GSF     GSF     `toml:"gsf"`
	Vending Vending `toml:"vending"`
}

// Build describes the OS build the device reports.
type Build struct {
	Fingerprint  string       `toml:"fingerprint"`
	Hardware     string       `toml:"hardware"`
	Brand        string       `toml:"brand"`
	Radio        string       `toml:"radio"`
	Bootloader   string       `toml:"bootloader"`
	Device       string       `toml:"device"`
	Model        string       `toml:"model"`
	Manufacturer string       `toml:"manufacturer"`
	Product      string       `toml:"product"`
	ID           string       `toml:"id"`
	Version      BuildVersion `toml:"version"`
}

// BuildVersion carries the SDK level and release string.
type BuildVersion struct {
	SDKInt  int32  `toml:"sdk_int"`
	Release string `toml:"release"`
}

// Screen holds the reported screen geometry and density.
type Screen struct {
	Density int32 `toml:"density"`
	Width   int32 `toml:"width"`
	Height  int32 `toml:"height"`
}

// GL holds the OpenGL ES version and the declared extension set.
type GL struct {
	Version    int32    `toml:"version"`
	Extensions []string `toml:"extensions"`
}

// GSF carries the services-framework version number.
type GSF struct {
	Version int32 `toml:"version"`
}

// Vending carries the store client version code and string.
type Vending struct {
	Version       int32  `toml:"version"`
	VersionString string `toml:"versionstring"`
}

// Validate rejects profiles with missing required fields at load time
// instead of failing lazily on first use.
func (d *Identity) Validate() error {
	required := map[string]string{
		"build.fingerprint":     d.Build.Fingerprint,
		"build.hardware":        d.Build.Hardware,
		"build.brand":           d.Build.Brand,
		"build.device":          d.Build.Device,
		"build.model":           d.Build.Model,
		"build.manufacturer":    d.Build.Manufacturer,
		"build.product":         d.Build.Product,
		"build.id":              d.Build.ID,
		"client":                d.Client,
		"celloperator":          d.CellOperator,
		"simoperator":           d.SimOperator,
		"roaming":               d.Roaming,
		"vending.versionstring": d.Vending.VersionString,
	}
	for field, value := range required {
		if value == "" {
			return fmt.Errorf("device profile is missing required field %q", field)
		}
	}
	if d.Build.Version.SDKInt <= 0 {
		return fmt.Errorf("device profile has invalid build.version.sdk_int")
	}
	if d.GSF.Version <= 0 {
		return fmt.Errorf("device profile has invalid gsf.version")
	}
	if d.Vending.Version <= 0 {
		return fmt.Errorf("device profile has invalid vending.version")
	}
	if len(d.Platforms) == 0 {
		return fmt.Errorf("device profile declares no supported ABIs")
	}
	if d.Screen.Density <= 0 || d.Screen.Width <= 0 || d.Screen.Height <= 0 {
		return fmt.Errorf("device profile has invalid screen geometry")
	}
	return nil
}
