package vending

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/apkcrawl/apkcrawl-cli/internal/errors"
	"github.com/apkcrawl/apkcrawl-cli/pkg/models"
	"github.com/apkcrawl/apkcrawl-cli/pkg/store"
	"github.com/apkcrawl/apkcrawl-cli/pkg/vending/wire"
)

// retryLaterMessage is the backend's generic transient purchase
// rejection; it maps to the retryable outcome, not a hard failure.
const retryLaterMessage = "Can't install. Please try again later."

// Purchase associates the entry with the account. The backend requires
// this even for free entries; a successful response yields the
// download token.
func (c *Client) Purchase(ctx context.Context, entry models.CatalogEntry) (string, error) {
	if err := c.Login(ctx); err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("ot", strconv.FormatInt(int64(entry.OfferType), 10))
	form.Set("doc", entry.PackageID)
	form.Set("vc", strconv.FormatInt(int64(entry.VersionCode), 10))

	resp, err := c.transport.PostForm(ctx, c.baseURL+"fdfe/purchase", c.baseHeaders(), form)
	if err != nil {
		return "", err
	}
	var wrapper wire.ResponseWrapper
	if err := wrapper.Unmarshal(resp.Body); err != nil {
		return "", errors.NewTransport(fmt.Sprintf("failed to decode purchase response for %s", entry.PackageID), err)
	}

	switch msg := wrapper.ErrorMessage(); {
	case msg == "":
		if wrapper.Payload == nil || wrapper.Payload.BuyResponse == nil {
			return "", fmt.Errorf("purchase of %s returned no buy payload", entry.PackageID)
		}
		return wrapper.Payload.BuyResponse.DownloadToken, nil
	case msg == retryLaterMessage:
		return "", errors.NewRetryableAcquisition(entry.PackageID)
	case strings.Contains(msg, "busy"):
		return "", errors.NewServerBusy(entry.PackageID)
	default:
		return "", fmt.Errorf("%s", msg)
	}
}

// Delivery requests the delivery metadata for a purchased entry and
// assembles the acquisition manifest.
func (c *Client) Delivery(ctx context.Context, entry models.CatalogEntry, downloadToken string) (*models.AcquisitionManifest, error) {
	query := url.Values{}
	query.Set("ot", strconv.FormatInt(int64(entry.OfferType), 10))
	query.Set("doc", entry.PackageID)
	query.Set("vc", strconv.FormatInt(int64(entry.VersionCode), 10))
	query.Set("dtok", downloadToken)

	wrapper, err := c.getWrapper(ctx, c.baseURL+"fdfe/delivery", query)
	if err != nil {
		return nil, err
	}
	if msg := wrapper.ErrorMessage(); msg != "" {
		if strings.Contains(msg, "busy") {
			return nil, errors.NewServerBusy("server was busy")
		}
		return nil, fmt.Errorf("%s", msg)
	}
	if wrapper.Payload == nil || wrapper.Payload.DeliveryResponse == nil ||
		wrapper.Payload.DeliveryResponse.AppDeliveryData == nil {
		return nil, fmt.Errorf("delivery of %s returned no delivery data", entry.PackageID)
	}

	data := wrapper.Payload.DeliveryResponse.AppDeliveryData
	if data.DownloadURL == "" {
		// No error and no location: the entry was never actually
		// granted to the account.
		return nil, fmt.Errorf("package %s was not purchased", entry.PackageID)
	}

	manifest := &models.AcquisitionManifest{
		DownloadToken: downloadToken,
		DownloadURL:   data.DownloadURL,
		DownloadSize:  data.DownloadSize,
	}
	if len(data.DownloadAuthCookie) > 0 {
		manifest.Cookie = models.DownloadCookie{
			Name:  data.DownloadAuthCookie[0].Name,
			Value: data.DownloadAuthCookie[0].Value,
		}
	}
	for _, split := range data.Split {
		manifest.Splits = append(manifest.Splits, models.SplitPackage{
			Name:        split.Name,
			DownloadURL: split.DownloadURL,
		})
	}
	for _, aux := range data.AdditionalFile {
		manifest.AuxFiles = append(manifest.AuxFiles, models.AuxFile{
			Type:        models.AuxFileType(aux.FileType),
			VersionCode: aux.VersionCode,
			Size:        aux.Size,
			DownloadURL: aux.DownloadURL,
		})
	}
	return manifest, nil
}

// Download purchases the entry and fetches every artifact the delivery
// names: the primary package with its auth cookie, every split package
// and every auxiliary data file. All bytes go to the sink.
func (c *Client) Download(ctx context.Context, entry models.CatalogEntry, sink store.Sink) error {
	c.log.Info("downloading %s", entry.PackageID)
	if err := c.Login(ctx); err != nil {
		return err
	}
	if err := sink.SaveMetadata(entry); err != nil {
		return err
	}

	token, err := c.Purchase(ctx, entry)
	if err != nil {
		return err
	}
	manifest, err := c.Delivery(ctx, entry, token)
	if err != nil {
		return err
	}

	headers := c.baseHeaders()
	if manifest.Cookie.Name != "" {
		headers.Set("Cookie", manifest.Cookie.Name+"="+manifest.Cookie.Value)
	}
	if err := c.fetchTo(ctx, manifest.DownloadURL, headers, func(r io.Reader) error {
		return sink.SavePackage(entry, r)
	}); err != nil {
		return err
	}
	c.log.Debug("fetched primary package for %s", entry.PackageID)

	// Splits and auxiliary files need no cookie.
	plain := c.baseHeaders()
	for _, split := range manifest.Splits {
		split := split
		if err := c.fetchTo(ctx, split.DownloadURL, plain, func(r io.Reader) error {
			return sink.SaveSplit(entry, split.Name, r)
		}); err != nil {
			return err
		}
	}
	for _, aux := range manifest.AuxFiles {
		name := fmt.Sprintf("%s.%d.%s.obb", aux.Type, aux.VersionCode, entry.PackageID)
		if err := c.fetchTo(ctx, aux.DownloadURL, plain, func(r io.Reader) error {
			return sink.SaveAuxFile(entry, name, r)
		}); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) fetchTo(ctx context.Context, rawURL string, headers http.Header, save func(io.Reader) error) error {
	body, _, err := c.transport.Stream(ctx, rawURL, headers)
	if err != nil {
		return err
	}
	defer body.Close()
	return save(body)
}
