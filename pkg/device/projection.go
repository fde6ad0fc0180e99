package device

import (
	"time"

	"github.com/apkcrawl/apkcrawl-cli/pkg/vending/wire"
)

// CheckinProto projects the identity into the checkin descriptor the
// backend expects during device registration.
func (d *Identity) CheckinProto() *wire.AndroidCheckinProto {
	return &wire.AndroidCheckinProto{
		Build: &wire.AndroidBuildProto{
			ID:             d.Build.Fingerprint,
			Product:        d.Build.Hardware,
			Carrier:        d.Build.Brand,
			Radio:          d.Build.Radio,
			Bootloader:     d.Build.Bootloader,
			Client:         d.Client,
			Timestamp:      time.Now().Unix() / 1000,
			GoogleServices: d.GSF.Version,
			Device:         d.Build.Device,
			SDKVersion:     d.Build.Version.SDKInt,
			Model:          d.Build.Model,
			Manufacturer:   d.Build.Manufacturer,
			BuildProduct:   d.Build.Product,
		},
		CellOperator: d.CellOperator,
		SimOperator:  d.SimOperator,
		Roaming:      d.Roaming,
	}
}

// ConfigProto projects the identity into the full device capability
// descriptor submitted via uploadDeviceConfig.
func (d *Identity) ConfigProto() *wire.DeviceConfigurationProto {
	return &wire.DeviceConfigurationProto{
		TouchScreen:            d.TouchScreen,
		Keyboard:               d.Keyboard,
		Navigation:             d.Navigation,
		ScreenLayout:           d.ScreenLayout,
		HasHardKeyboard:        d.HasHardKeyboard,
		HasFiveWayNavigation:   d.HasFiveWayNavigation,
		ScreenDensity:          d.Screen.Density,
		GLESVersion:            d.GL.Version,
		SystemSharedLibrary:    d.SharedLibraries,
		SystemAvailableFeature: d.Features,
		NativePlatform:         d.Platforms,
		ScreenWidth:            d.Screen.Width,
		ScreenHeight:           d.Screen.Height,
		SystemSupportedLocale:  d.Locales,
		GLExtension:            d.GL.Extensions,
	}
}
