package screenconfig

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML file on top of Default and returns the config with raw bytes.
// An empty path returns Default. A keywords list in the file replaces the default list.
// KnownFields(true)로 오타/미사용 필드 즉시 실패
func Load(path string) (Config, []byte, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, nil, fmt.Errorf("read screen config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, nil, fmt.Errorf("decode screen config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, data, err
	}

	return cfg, data, nil
}

// Hash generates SHA256 hash from Config (canonical JSON)
func Hash(cfg Config) (string, error) {
	jsonBytes, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}
