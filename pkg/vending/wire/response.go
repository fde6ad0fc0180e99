package wire

import "google.golang.org/protobuf/encoding/protowire"

// ResponseWrapper is the envelope of every fdfe response.
type ResponseWrapper struct {
	Payload  *Payload        // 1
	Commands *ServerCommands // 2
	PreFetch []*PreFetch     // 3
}

// Unmarshal decodes the envelope.
func (m *ResponseWrapper) Unmarshal(data []byte) error {
	return walkFields(data, func(f field) error {
		switch f.num {
		case 1:
			raw, err := f.bytes()
			if err != nil {
				return err
			}
			m.Payload = &Payload{}
			return m.Payload.Unmarshal(raw)
		case 2:
			raw, err := f.bytes()
			if err != nil {
				return err
			}
			m.Commands = &ServerCommands{}
			return m.Commands.Unmarshal(raw)
		case 3:
			raw, err := f.bytes()
			if err != nil {
				return err
			}
			pf := &PreFetch{}
			if err := pf.Unmarshal(raw); err != nil {
				return err
			}
			m.PreFetch = append(m.PreFetch, pf)
		}
		return nil
	})
}

// Marshal encodes the envelope.
func (m *ResponseWrapper) Marshal() []byte {
	var b []byte
	if m.Payload != nil {
		b = appendMessage(b, 1, m.Payload.Marshal())
	}
	if m.Commands != nil {
		b = appendMessage(b, 2, m.Commands.Marshal())
	}
	for _, pf := range m.PreFetch {
		b = appendMessage(b, 3, pf.Marshal())
	}
	return b
}

// ErrorMessage returns the server-reported display error, if any.
func (m *ResponseWrapper) ErrorMessage() string {
	if m.Commands == nil {
		return ""
	}
	return m.Commands.DisplayErrorMessage
}

// ServerCommands carries out-of-band server instructions.
type ServerCommands struct {
	ClearCache          bool   // 1
	DisplayErrorMessage string // 2
}

// Unmarshal decodes the message.
func (m *ServerCommands) Unmarshal(data []byte) error {
	return walkFields(data, func(f field) error {
		var err error
		switch f.num {
		case 1:
			var v uint64
			v, err = f.varint()
			m.ClearCache = v != 0
		case 2:
			m.DisplayErrorMessage, err = f.string()
		}
		return err
	})
}

// Marshal encodes the message.
func (m *ServerCommands) Marshal() []byte {
	var b []byte
	b = appendBool(b, 1, m.ClearCache)
	b = appendString(b, 2, m.DisplayErrorMessage)
	return b
}

// PreFetch pairs a locator with the prefetched response for it.
type PreFetch struct {
	URL      string           // 1
	Response *ResponseWrapper // 2
}

// Unmarshal decodes the message.
func (m *PreFetch) Unmarshal(data []byte) error {
	return walkFields(data, func(f field) error {
		switch f.num {
		case 1:
			v, err := f.string()
			m.URL = v
			return err
		case 2:
			raw, err := f.bytes()
			if err != nil {
				return err
			}
			m.Response = &ResponseWrapper{}
			return m.Response.Unmarshal(raw)
		}
		return nil
	})
}

// Marshal encodes the message.
func (m *PreFetch) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.URL)
	if m.Response != nil {
		b = appendMessage(b, 2, m.Response.Marshal())
	}
	return b
}

// Payload multiplexes the per-endpoint response bodies.
type Payload struct {
	ListResponse               *ListResponse               // 1
	DetailsResponse            *DetailsResponse            // 2
	BuyResponse                *BuyResponse                // 4
	BrowseResponse             *BrowseResponse             // 7
	DeliveryResponse           *DeliveryResponse           // 21
	UploadDeviceConfigResponse *UploadDeviceConfigResponse // 25
}

// Unmarshal decodes the message.
func (m *Payload) Unmarshal(data []byte) error {
	return walkFields(data, func(f field) error {
		// A scalar sharing a known field number must not be misread as
		// a length-prefixed submessage.
		if f.typ != protowire.BytesType {
			return nil
		}
		raw, err := f.bytes()
		if err != nil {
			return err
		}
		switch f.num {
		case 1:
			m.ListResponse = &ListResponse{}
			return m.ListResponse.Unmarshal(raw)
		case 2:
			m.DetailsResponse = &DetailsResponse{}
			return m.DetailsResponse.Unmarshal(raw)
		case 4:
			m.BuyResponse = &BuyResponse{}
			return m.BuyResponse.Unmarshal(raw)
		case 7:
			m.BrowseResponse = &BrowseResponse{}
			return m.BrowseResponse.Unmarshal(raw)
		case 21:
			m.DeliveryResponse = &DeliveryResponse{}
			return m.DeliveryResponse.Unmarshal(raw)
		case 25:
			m.UploadDeviceConfigResponse = &UploadDeviceConfigResponse{}
			return m.UploadDeviceConfigResponse.Unmarshal(raw)
		}
		return nil
	})
}

// Marshal encodes the message.
func (m *Payload) Marshal() []byte {
	var b []byte
	if m.ListResponse != nil {
		b = appendMessage(b, 1, m.ListResponse.Marshal())
	}
	if m.DetailsResponse != nil {
		b = appendMessage(b, 2, m.DetailsResponse.Marshal())
	}
	if m.BuyResponse != nil {
		b = appendMessage(b, 4, m.BuyResponse.Marshal())
	}
	if m.BrowseResponse != nil {
		b = appendMessage(b, 7, m.BrowseResponse.Marshal())
	}
	if m.DeliveryResponse != nil {
		b = appendMessage(b, 21, m.DeliveryResponse.Marshal())
	}
	if m.UploadDeviceConfigResponse != nil {
		b = appendMessage(b, 25, m.UploadDeviceConfigResponse.Marshal())
	}
	return b
}

// DetailsResponse carries the document for one requested package.
type DetailsResponse struct {
	DocV2 *DocV2 // 4
}

// Unmarshal decodes the message.
func (m *DetailsResponse) Unmarshal(data []byte) error {
	return walkFields(data, func(f field) error {
		if f.num != 4 {
			return nil
		}
		raw, err := f.bytes()
		if err != nil {
			return err
		}
		m.DocV2 = &DocV2{}
		return m.DocV2.Unmarshal(raw)
	})
}

// Marshal encodes the message.
func (m *DetailsResponse) Marshal() []byte {
	var b []byte
	if m.DocV2 != nil {
		b = appendMessage(b, 4, m.DocV2.Marshal())
	}
	return b
}

// BrowseResponse lists the catalog categories.
type BrowseResponse struct {
	Category []*BrowseLink // 3
}

// Unmarshal decodes the message.
func (m *BrowseResponse) Unmarshal(data []byte) error {
	return walkFields(data, func(f field) error {
		if f.num != 3 {
			return nil
		}
		raw, err := f.bytes()
		if err != nil {
			return err
		}
		link := &BrowseLink{}
		if err := link.Unmarshal(raw); err != nil {
			return err
		}
		m.Category = append(m.Category, link)
		return nil
	})
}

// Marshal encodes the message.
func (m *BrowseResponse) Marshal() []byte {
	var b []byte
	for _, link := range m.Category {
		b = appendMessage(b, 3, link.Marshal())
	}
	return b
}

// BrowseLink names one category and carries its data locator.
type BrowseLink struct {
	Name    string // 1
	DataURL string // 2
}

// Unmarshal decodes the message.
func (m *BrowseLink) Unmarshal(data []byte) error {
	return walkFields(data, func(f field) error {
		var err error
		switch f.num {
		case 1:
			m.Name, err = f.string()
		case 2:
			m.DataURL, err = f.string()
		}
		return err
	})
}

// Marshal encodes the message.
func (m *BrowseLink) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.Name)
	b = appendString(b, 2, m.DataURL)
	return b
}

// ListResponse carries the document tree of a listing page.
type ListResponse struct {
	Doc []*DocV2 // 2
}

// Unmarshal decodes the message.
func (m *ListResponse) Unmarshal(data []byte) error {
	return walkFields(data, func(f field) error {
		if f.num != 2 {
			return nil
		}
		raw, err := f.bytes()
		if err != nil {
			return err
		}
		doc := &DocV2{}
		if err := doc.Unmarshal(raw); err != nil {
			return err
		}
		m.Doc = append(m.Doc, doc)
		return nil
	})
}

// Marshal encodes the message.
func (m *ListResponse) Marshal() []byte {
	var b []byte
	for _, doc := range m.Doc {
		b = appendMessage(b, 2, doc.Marshal())
	}
	return b
}

// DocV2 is the recursive document node used for listings and details.
type DocV2 struct {
	DocID             string             // 1
	Title             string             // 5
	Creator           string             // 6
	Offer             []*Offer           // 8
	Child             []*DocV2           // 11
	ContainerMetadata *ContainerMetadata // 12
	Details           *DocumentDetails   // 13
	AggregateRating   *AggregateRating   // 14
}

// Unmarshal decodes the node.
func (m *DocV2) Unmarshal(data []byte) error {
	return walkFields(data, func(f field) error {
		switch f.num {
		case 1:
			v, err := f.string()
			m.DocID = v
			return err
		case 5:
			v, err := f.string()
			m.Title = v
			return err
		case 6:
			v, err := f.string()
			m.Creator = v
			return err
		case 8:
			raw, err := f.bytes()
			if err != nil {
				return err
			}
			offer := &Offer{}
			if err := offer.Unmarshal(raw); err != nil {
				return err
			}
			m.Offer = append(m.Offer, offer)
		case 11:
			raw, err := f.bytes()
			if err != nil {
				return err
			}
			child := &DocV2{}
			if err := child.Unmarshal(raw); err != nil {
				return err
			}
			m.Child = append(m.Child, child)
		case 12:
			raw, err := f.bytes()
			if err != nil {
				return err
			}
			m.ContainerMetadata = &ContainerMetadata{}
			return m.ContainerMetadata.Unmarshal(raw)
		case 13:
			raw, err := f.bytes()
			if err != nil {
				return err
			}
			m.Details = &DocumentDetails{}
			return m.Details.Unmarshal(raw)
		case 14:
			raw, err := f.bytes()
			if err != nil {
				return err
			}
			m.AggregateRating = &AggregateRating{}
			return m.AggregateRating.Unmarshal(raw)
		}
		return nil
	})
}

// Marshal encodes the node.
func (m *DocV2) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.DocID)
	b = appendString(b, 5, m.Title)
	b = appendString(b, 6, m.Creator)
	for _, offer := range m.Offer {
		b = appendMessage(b, 8, offer.Marshal())
	}
	for _, child := range m.Child {
		b = appendMessage(b, 11, child.Marshal())
	}
	if m.ContainerMetadata != nil {
		b = appendMessage(b, 12, m.ContainerMetadata.Marshal())
	}
	if m.Details != nil {
		b = appendMessage(b, 13, m.Details.Marshal())
	}
	if m.AggregateRating != nil {
		b = appendMessage(b, 14, m.AggregateRating.Marshal())
	}
	return b
}

// ContainerMetadata carries the continuation cursor of a listing page.
type ContainerMetadata struct {
	NextPageURL string // 2
}

// Unmarshal decodes the message.
func (m *ContainerMetadata) Unmarshal(data []byte) error {
	return walkFields(data, func(f field) error {
		var err error
		if f.num == 2 {
			m.NextPageURL, err = f.string()
		}
		return err
	})
}

// Marshal encodes the message.
func (m *ContainerMetadata) Marshal() []byte {
	return appendString(nil, 2, m.NextPageURL)
}

// DocumentDetails wraps the app-specific details.
type DocumentDetails struct {
	AppDetails *AppDetails // 1
}

// Unmarshal decodes the message.
func (m *DocumentDetails) Unmarshal(data []byte) error {
	return walkFields(data, func(f field) error {
		if f.num != 1 {
			return nil
		}
		raw, err := f.bytes()
		if err != nil {
			return err
		}
		m.AppDetails = &AppDetails{}
		return m.AppDetails.Unmarshal(raw)
	})
}

// Marshal encodes the message.
func (m *DocumentDetails) Marshal() []byte {
	var b []byte
	if m.AppDetails != nil {
		b = appendMessage(b, 1, m.AppDetails.Marshal())
	}
	return b
}

// AppDetails carries the fields needed to version and download an app.
type AppDetails struct {
	VersionCode   int32    // 3
	VersionString string   // 4
	Permission    []string // 10
	NumDownloads  string   // 13
	PackageName   string   // 14
}

// Unmarshal decodes the message.
func (m *AppDetails) Unmarshal(data []byte) error {
	return walkFields(data, func(f field) error {
		var err error
		switch f.num {
		case 3:
			var v uint64
			v, err = f.varint()
			m.VersionCode = int32(v)
		case 4:
			m.VersionString, err = f.string()
		case 10:
			var v string
			v, err = f.string()
			if err == nil {
				m.Permission = append(m.Permission, v)
			}
		case 13:
			m.NumDownloads, err = f.string()
		case 14:
			m.PackageName, err = f.string()
		}
		return err
	})
}

// Marshal encodes the message.
func (m *AppDetails) Marshal() []byte {
	var b []byte
	b = appendVarint(b, 3, uint64(m.VersionCode))
	b = appendString(b, 4, m.VersionString)
	b = appendStrings(b, 10, m.Permission)
	b = appendString(b, 13, m.NumDownloads)
	b = appendString(b, 14, m.PackageName)
	return b
}

// AggregateRating summarizes user ratings.
type AggregateRating struct {
	StarRating   float32 // 2
	RatingsCount uint64  // 3
}

// Unmarshal decodes the message.
func (m *AggregateRating) Unmarshal(data []byte) error {
	return walkFields(data, func(f field) error {
		var err error
		switch f.num {
		case 2:
			var v uint32
			v, err = f.fixed32()
			m.StarRating = float32FromBits(v)
		case 3:
			m.RatingsCount, err = f.varint()
		}
		return err
	})
}

// Marshal encodes the message.
func (m *AggregateRating) Marshal() []byte {
	var b []byte
	b = appendFloat(b, 2, m.StarRating)
	b = appendVarint(b, 3, m.RatingsCount)
	return b
}

// Offer distinguishes the free and paid acquisition flows.
type Offer struct {
	OfferType int32 // 8
}

// Unmarshal decodes the message.
func (m *Offer) Unmarshal(data []byte) error {
	return walkFields(data, func(f field) error {
		var err error
		if f.num == 8 {
			var v uint64
			v, err = f.varint()
			m.OfferType = int32(v)
		}
		return err
	})
}

// Marshal encodes the message. OfferType is always emitted; offer
// type 0 is meaningful (paid flow marker differs from absence).
func (m *Offer) Marshal() []byte {
	return appendVarintAlways(nil, 8, uint64(m.OfferType))
}
