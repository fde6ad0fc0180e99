package wire

// AndroidBuildProto is the build descriptor submitted during checkin.
type AndroidBuildProto struct {
	ID             string // 1: build fingerprint
	Product        string // 2: hardware name
	Carrier        string // 3: brand
	Radio          string // 4
	Bootloader     string // 5
	Client         string // 6
	Timestamp      int64  // 7: seconds
	GoogleServices int32  // 8: services-framework version
	Device         string // 9
	SDKVersion     int32  // 10
	Model          string // 11
	Manufacturer   string // 12
	BuildProduct   string // 13
	OTAInstalled   bool   // 14
}

// Marshal encodes the message.
func (m *AndroidBuildProto) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.ID)
	b = appendString(b, 2, m.Product)
	b = appendString(b, 3, m.Carrier)
	b = appendString(b, 4, m.Radio)
	b = appendString(b, 5, m.Bootloader)
	b = appendString(b, 6, m.Client)
	b = appendVarint(b, 7, uint64(m.Timestamp))
	b = appendVarint(b, 8, uint64(m.GoogleServices))
	b = appendString(b, 9, m.Device)
	b = appendVarint(b, 10, uint64(m.SDKVersion))
	b = appendString(b, 11, m.Model)
	b = appendString(b, 12, m.Manufacturer)
	b = appendString(b, 13, m.BuildProduct)
	b = appendBool(b, 14, m.OTAInstalled)
	return b
}

// AndroidCheckinProto wraps the build plus cellular identity.
type AndroidCheckinProto struct {
	Build           *AndroidBuildProto // 1
	LastCheckinMsec int64              // 2
	CellOperator    string             // 6
	SimOperator     string             // 7
	Roaming         string             // 8
	UserNumber      int32              // 9
}

// Marshal encodes the message. LastCheckinMsec and UserNumber are
// emitted even when zero; the backend expects them present.
func (m *AndroidCheckinProto) Marshal() []byte {
	var b []byte
	if m.Build != nil {
		b = appendMessage(b, 1, m.Build.Marshal())
	}
	b = appendVarintAlways(b, 2, uint64(m.LastCheckinMsec))
	b = appendString(b, 6, m.CellOperator)
	b = appendString(b, 7, m.SimOperator)
	b = appendString(b, 8, m.Roaming)
	b = appendVarintAlways(b, 9, uint64(m.UserNumber))
	return b
}

// AndroidCheckinRequest registers a device identity with the backend.
// The first request carries Id 0 and no security token; the second
// resubmits with the assigned identifier, token and account cookies.
type AndroidCheckinRequest struct {
	ID                  int64                     // 2
	Checkin             *AndroidCheckinProto      // 4
	Locale              string                    // 6
	AccountCookie       []string                  // 11
	TimeZone            string                    // 12
	SecurityToken       uint64                    // 13
	Version             int32                     // 14
	DeviceConfiguration *DeviceConfigurationProto // 18
	Fragment            int32                     // 20
}

// Marshal encodes the message. Id and Fragment are always present.
func (m *AndroidCheckinRequest) Marshal() []byte {
	var b []byte
	b = appendVarintAlways(b, 2, uint64(m.ID))
	if m.Checkin != nil {
		b = appendMessage(b, 4, m.Checkin.Marshal())
	}
	b = appendString(b, 6, m.Locale)
	b = appendStrings(b, 11, m.AccountCookie)
	b = appendString(b, 12, m.TimeZone)
	b = appendFixed64(b, 13, m.SecurityToken)
	b = appendVarint(b, 14, uint64(m.Version))
	if m.DeviceConfiguration != nil {
		b = appendMessage(b, 18, m.DeviceConfiguration.Marshal())
	}
	b = appendVarintAlways(b, 20, uint64(m.Fragment))
	return b
}

// AndroidCheckinResponse carries the assigned device identifier and
// security token.
type AndroidCheckinResponse struct {
	StatsOK                       bool   // 1
	TimeMsec                      int64  // 3
	AndroidID                     uint64 // 7: fixed64
	SecurityToken                 uint64 // 8: fixed64
	DeviceCheckinConsistencyToken string // 12
}

// Unmarshal decodes the message, skipping unknown fields.
func (m *AndroidCheckinResponse) Unmarshal(data []byte) error {
	return walkFields(data, func(f field) error {
		var err error
		switch f.num {
		case 1:
			var v uint64
			v, err = f.varint()
			m.StatsOK = v != 0
		case 3:
			var v uint64
			v, err = f.varint()
			m.TimeMsec = int64(v)
		case 7:
			m.AndroidID, err = f.fixed64()
		case 8:
			m.SecurityToken, err = f.fixed64()
		case 12:
			m.DeviceCheckinConsistencyToken, err = f.string()
		}
		return err
	})
}

// Marshal encodes the message. Used by tests to script backend
// responses.
func (m *AndroidCheckinResponse) Marshal() []byte {
	var b []byte
	b = appendBool(b, 1, m.StatsOK)
	b = appendVarint(b, 3, uint64(m.TimeMsec))
	b = appendFixed64(b, 7, m.AndroidID)
	b = appendFixed64(b, 8, m.SecurityToken)
	b = appendString(b, 12, m.DeviceCheckinConsistencyToken)
	return b
}
