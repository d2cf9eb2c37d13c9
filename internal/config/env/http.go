package env

import (
	"lottery_backend/internal/config"
	"os"
)

const (
	httpAddressEnvName = "HTTP_ADDRESS"
	defaultHTTPAddress = ":8080"
)

type httpConfig struct {
	address string
}

func NewHTTPConfig() (config.HTTPConfig, error) {
	address := os.Getenv(httpAddressEnvName)
	if len(address) == 0 {
		address = defaultHTTPAddress
	}

	return &httpConfig{address: address}, nil
}

func (cfg *httpConfig) Address() string {
	return cfg.address
}
