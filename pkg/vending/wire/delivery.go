package wire

// BuyResponse acknowledges a purchase and hands out the download
// token. The downloadToken number follows the community GooglePlay
// schema lineage the backend is known to speak.
type BuyResponse struct {
	DownloadToken string // 55
}

// Unmarshal decodes the message.
func (m *BuyResponse) Unmarshal(data []byte) error {
	return walkFields(data, func(f field) error {
		var err error
		if f.num == 55 {
			m.DownloadToken, err = f.string()
		}
		return err
	})
}

// Marshal encodes the message.
func (m *BuyResponse) Marshal() []byte {
	return appendString(nil, 55, m.DownloadToken)
}

// DeliveryResponse wraps the delivery metadata for one package.
type DeliveryResponse struct {
	Status          int32                   // 1
	AppDeliveryData *AndroidAppDeliveryData // 2
}

// Unmarshal decodes the message.
func (m *DeliveryResponse) Unmarshal(data []byte) error {
	return walkFields(data, func(f field) error {
		switch f.num {
		case 1:
			v, err := f.varint()
			m.Status = int32(v)
			return err
		case 2:
			raw, err := f.bytes()
			if err != nil {
				return err
			}
			m.AppDeliveryData = &AndroidAppDeliveryData{}
			return m.AppDeliveryData.Unmarshal(raw)
		}
		return nil
	})
}

// Marshal encodes the message.
func (m *DeliveryResponse) Marshal() []byte {
	var b []byte
	b = appendVarint(b, 1, uint64(m.Status))
	if m.AppDeliveryData != nil {
		b = appendMessage(b, 2, m.AppDeliveryData.Marshal())
	}
	return b
}

// AndroidAppDeliveryData locates the primary package, its auth cookie,
// the split packages and any auxiliary files.
type AndroidAppDeliveryData struct {
	DownloadSize       int64                // 1
	SHA1               string               // 2
	DownloadURL        string               // 3
	AdditionalFile     []*AppFileMetadata   // 4
	DownloadAuthCookie []*HTTPCookie        // 5
	Split              []*SplitDeliveryData // 15
}

// Unmarshal decodes the message.
func (m *AndroidAppDeliveryData) Unmarshal(data []byte) error {
	return walkFields(data, func(f field) error {
		switch f.num {
		case 1:
			v, err := f.varint()
			m.DownloadSize = int64(v)
			return err
		case 2:
			v, err := f.string()
			m.SHA1 = v
			return err
		case 3:
			v, err := f.string()
			m.DownloadURL = v
			return err
		case 4:
			raw, err := f.bytes()
			if err != nil {
				return err
			}
			af := &AppFileMetadata{}
			if err := af.Unmarshal(raw); err != nil {
				return err
			}
			m.AdditionalFile = append(m.AdditionalFile, af)
		case 5:
			raw, err := f.bytes()
			if err != nil {
				return err
			}
			c := &HTTPCookie{}
			if err := c.Unmarshal(raw); err != nil {
				return err
			}
			m.DownloadAuthCookie = append(m.DownloadAuthCookie, c)
		case 15:
			raw, err := f.bytes()
			if err != nil {
				return err
			}
			s := &SplitDeliveryData{}
			if err := s.Unmarshal(raw); err != nil {
				return err
			}
			m.Split = append(m.Split, s)
		}
		return nil
	})
}

// Marshal encodes the message.
func (m *AndroidAppDeliveryData) Marshal() []byte {
	var b []byte
	b = appendVarint(b, 1, uint64(m.DownloadSize))
	b = appendString(b, 2, m.SHA1)
	b = appendString(b, 3, m.DownloadURL)
	for _, af := range m.AdditionalFile {
		b = appendMessage(b, 4, af.Marshal())
	}
	for _, c := range m.DownloadAuthCookie {
		b = appendMessage(b, 5, c.Marshal())
	}
	for _, s := range m.Split {
		b = appendMessage(b, 15, s.Marshal())
	}
	return b
}

// AppFileMetadata describes one auxiliary data file.
type AppFileMetadata struct {
	FileType    int32  // 1: 0 main, 1 patch
	VersionCode int32  // 2
	Size        int64  // 3
	DownloadURL string // 4
}

// Unmarshal decodes the message.
func (m *AppFileMetadata) Unmarshal(data []byte) error {
	return walkFields(data, func(f field) error {
		var err error
		switch f.num {
		case 1:
			var v uint64
			v, err = f.varint()
			m.FileType = int32(v)
		case 2:
			var v uint64
			v, err = f.varint()
			m.VersionCode = int32(v)
		case 3:
			var v uint64
			v, err = f.varint()
			m.Size = int64(v)
		case 4:
			m.DownloadURL, err = f.string()
		}
		return err
	})
}

// Marshal encodes the message. FileType 0 (main) is always emitted.
func (m *AppFileMetadata) Marshal() []byte {
	var b []byte
	b = appendVarintAlways(b, 1, uint64(m.FileType))
	b = appendVarint(b, 2, uint64(m.VersionCode))
	b = appendVarint(b, 3, uint64(m.Size))
	b = appendString(b, 4, m.DownloadURL)
	return b
}

// HTTPCookie is the name/value auth cookie for the primary download.
type HTTPCookie struct {
	Name  string // 1
	Value string // 2
}

// Unmarshal decodes the message.
func (m *HTTPCookie) Unmarshal(data []byte) error {
	return walkFields(data, func(f field) error {
		var err error
		switch f.num {
		case 1:
			m.Name, err = f.string()
		case 2:
			m.Value, err = f.string()
		}
		return err
	})
}

// Marshal encodes the message.
func (m *HTTPCookie) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.Name)
	b = appendString(b, 2, m.Value)
	return b
}

// SplitDeliveryData locates one split package.
type SplitDeliveryData struct {
	Name        string // 1
	DownloadURL string // 5
}

// Unmarshal decodes the message.
func (m *SplitDeliveryData) Unmarshal(data []byte) error {
	return walkFields(data, func(f field) error {
		var err error
		switch f.num {
		case 1:
			m.Name, err = f.string()
		case 5:
			m.DownloadURL, err = f.string()
		}
		return err
	})
}

// Marshal encodes the message.
func (m *SplitDeliveryData) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.Name)
	b = appendString(b, 5, m.DownloadURL)
	return b
}
