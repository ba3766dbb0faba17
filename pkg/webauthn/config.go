package webauthn

type Config struct {
	RPID   string `env:"WEBAUTHN_RP_ID"`  // RPID is the relying-party identifier credentials are bound to, e.g. "pbx.example.com".
	Origin string `env:"WEBAUTHN_ORIGIN"` // Origin is the expected client-data origin. Defaults to "https://" + RPID.
}
