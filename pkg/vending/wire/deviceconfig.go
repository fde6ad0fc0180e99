package wire

// DeviceConfigurationProto is the full device capability descriptor.
type DeviceConfigurationProto struct {
	TouchScreen            int32    // 1
	Keyboard               int32    // 2
	Navigation             int32    // 3
	ScreenLayout           int32    // 4
	HasHardKeyboard        bool     // 5
	HasFiveWayNavigation   bool     // 6
	ScreenDensity          int32    // 7
	GLESVersion            int32    // 8
	SystemSharedLibrary    []string // 9
	SystemAvailableFeature []string // 10
	NativePlatform         []string // 11
	ScreenWidth            int32    // 12
	ScreenHeight           int32    // 13
	SystemSupportedLocale  []string // 14
	GLExtension            []string // 15
}

// Marshal encodes the message.
func (m *DeviceConfigurationProto) Marshal() []byte {
	var b []byte
	b = appendVarintAlways(b, 1, uint64(m.TouchScreen))
	b = appendVarintAlways(b, 2, uint64(m.Keyboard))
	b = appendVarintAlways(b, 3, uint64(m.Navigation))
	b = appendVarintAlways(b, 4, uint64(m.ScreenLayout))
	b = appendBool(b, 5, m.HasHardKeyboard)
	b = appendBool(b, 6, m.HasFiveWayNavigation)
	b = appendVarint(b, 7, uint64(m.ScreenDensity))
	b = appendVarint(b, 8, uint64(m.GLESVersion))
	b = appendStrings(b, 9, m.SystemSharedLibrary)
	b = appendStrings(b, 10, m.SystemAvailableFeature)
	b = appendStrings(b, 11, m.NativePlatform)
	b = appendVarint(b, 12, uint64(m.ScreenWidth))
	b = appendVarint(b, 13, uint64(m.ScreenHeight))
	b = appendStrings(b, 14, m.SystemSupportedLocale)
	b = appendStrings(b, 15, m.GLExtension)
	return b
}

// UploadDeviceConfigRequest submits the device descriptor after login.
type UploadDeviceConfigRequest struct {
	DeviceConfiguration *DeviceConfigurationProto // 1
}

// Marshal encodes the message.
func (m *UploadDeviceConfigRequest) Marshal() []byte {
	var b []byte
	if m.DeviceConfiguration != nil {
		b = appendMessage(b, 1, m.DeviceConfiguration.Marshal())
	}
	return b
}

// UploadDeviceConfigResponse carries the device-config token included
// in all later headers. The field may be absent; that is tolerated.
type UploadDeviceConfigResponse struct {
	UploadDeviceConfigToken string // 1
}

// Unmarshal decodes the message.
func (m *UploadDeviceConfigResponse) Unmarshal(data []byte) error {
	return walkFields(data, func(f field) error {
		var err error
		if f.num == 1 {
			m.UploadDeviceConfigToken, err = f.string()
		}
		return err
	})
}

// Marshal encodes the message.
func (m *UploadDeviceConfigResponse) Marshal() []byte {
	return appendString(nil, 1, m.UploadDeviceConfigToken)
}
