package configure

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

var ErrMissingField = fmt.Errorf("missing required configure field")

func LoadConfigure(path string) (*Configure, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfigure(f)
}

func ParseConfigure(b []byte) (*Configure, error) {
	c := new(Configure)
	err := yaml.Unmarshal(b, c)
	if err != nil {
		return nil, err
	}
	if c.Log == nil {
		c.Log = &LogConfigure{}
	}
	return c, nil
}

// Validate checks the fields needed to talk to the judge. MinIO is optional.
func (c *Configure) Validate() error {
	if c.BaseURI == "" {
		return fmt.Errorf("%w: base-uri", ErrMissingField)
	}
	if c.AccountID == "" {
		return fmt.Errorf("%w: account-id", ErrMissingField)
	}
	if c.Secret == "" {
		return fmt.Errorf("%w: secret", ErrMissingField)
	}
	if c.MinIO != nil && (c.MinIO.Endpoint == "" || c.MinIO.Credentials == nil) {
		return fmt.Errorf("%w: minio.endpoint and minio.credentials", ErrMissingField)
	}
	return nil
}
