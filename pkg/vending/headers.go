package vending

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	// ServerURL is the store backend all catalog and delivery requests
	// go to.
	ServerURL = "https://android.clients.google.com/"

	// AuthURL is the account authorization endpoint.
	AuthURL = "https://android.clients.google.com/auth"

	clientID        = "am-android-google"
	clientSignature = "38918a453d07199354f8b19af05ec6562ced5788"
)

// baseHeaders builds the header set for authenticated requests. Tokens
// obtained during login are included once known.
func (c *Client) baseHeaders() http.Header {
	h := http.Header{}
	h.Set("Accept-Language", strings.ReplaceAll(c.locale, "_", "-"))
	h.Set("User-Agent", c.userAgent())
	h.Set("X-DFE-Client-Id", clientID)
	h.Set("X-DFE-MCCMNC", c.device.CellOperator)
	h.Set("X-DFE-Network-Type", "4")
	if c.session.AndroidID != 0 {
		h.Set("X-DFE-Device-Id", strconv.FormatUint(c.session.AndroidID, 16))
	}
	if c.session.AuthToken != "" {
		h.Set("Authorization", "GoogleLogin auth="+c.session.AuthToken)
	}
	if c.session.DeviceConfigToken != "" {
		h.Set("X-DFE-Device-Config-Token", c.session.DeviceConfigToken)
	}
	if c.session.CheckinConsistencyToken != "" {
		h.Set("X-DFE-Device-Checkin-Consistency-Token", c.session.CheckinConsistencyToken)
	}
	return h
}

// userAgent composes the store client identification string from the
// device profile.
func (c *Client) userAgent() string {
	return fmt.Sprintf("Android-Finsky/%s (api=3,versionCode=%d,sdk=%d,device=%s,"+
		"hardware=%s,product=%s,platformVersionRelease=%s,model=%s,buildId=%s,supportedAbis=%s)",
		c.device.Vending.VersionString,
		c.device.Vending.Version,
		c.device.Build.Version.SDKInt,
		c.device.Build.Device,
		c.device.Build.Hardware,
		c.device.Build.Product,
		c.device.Build.Version.Release,
		c.device.Build.Model,
		c.device.Build.ID,
		strings.Join(c.device.Platforms, ";"))
}

// loginParameters builds the auth endpoint form and headers from the
// credential. The service and app identifiers are adjusted per step by
// the caller.
func (c *Client) loginParameters(authString string) (url.Values, http.Header) {
	params := url.Values{}
	params.Set("Email", c.cred.Mail)
	params.Set("EncryptedPasswd", authString)
	params.Set("add_account", "1")
	params.Set("accountType", "HOSTED_OR_GOOGLE")
	params.Set("google_play_services_version", strconv.FormatInt(int64(c.device.GSF.Version), 10))
	params.Set("has_permission", "1")
	params.Set("source", "android")
	params.Set("device_county", "en")
	params.Set("lang", c.locale)
	params.Set("client_sig", clientSignature)
	params.Set("callerSig", clientSignature)
	params.Set("service", "ac2dm")
	params.Set("callerPkg", "com.android.google.gms")

	headers := http.Header{}
	headers.Set("User-Agent", fmt.Sprintf("GoogleAuth/1.4 (%s %s); gzip",
		c.device.Build.Device, c.device.Build.ID))
	if c.session.AndroidID != 0 {
		headers.Set("device", strconv.FormatUint(c.session.AndroidID, 16))
	}
	return params, headers
}
