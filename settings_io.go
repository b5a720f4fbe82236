package lumen

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var ErrSettingsFormat = errors.New("unsupported settings format")

// Decoder is the common surface of the toml and yaml decoders.
type Decoder interface {
	Decode(v any) error
}

type Encoder interface {
	Encode(v any) error
}

type DecoderFunc func(r io.Reader) Decoder
type EncoderFunc func(w io.Writer) Encoder

func tomlDecoder(r io.Reader) Decoder { return toml.NewDecoder(r).DisallowUnknownFields() }
func yamlDecoder(r io.Reader) Decoder {
	d := yaml.NewDecoder(r)
	d.KnownFields(true)
	return d
}

func tomlEncoder(w io.Writer) Encoder { return toml.NewEncoder(w) }
func yamlEncoder(w io.Writer) Encoder {
	e := yaml.NewEncoder(w)
	e.SetIndent(2)
	return e
}

// codecFor picks the codec from the file extension.
func codecFor(filename string) (DecoderFunc, EncoderFunc, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".toml":
		return tomlDecoder, tomlEncoder, nil
	case ".yaml", ".yml":
		return yamlDecoder, yamlEncoder, nil
	}
	return nil, nil, fmt.Errorf("%w: %q", ErrSettingsFormat, filename)
}

// LoadSettings reads a TOML or YAML settings file. Keys absent from the file
// keep their DefaultSettings value.
func LoadSettings(filename string) (Settings, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}
	dec, _, err := codecFor(filename)
	if err != nil {
		return Settings{}, err
	}
	return ReadSettings(bytes.NewReader(data), dec)
}

func ReadSettings(r io.Reader, dec DecoderFunc) (Settings, error) {
	s := DefaultSettings()
	if err := dec(r).Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return s.Normalized(), nil
}

func SaveSettings(filename string, s Settings) error {
	_, enc, err := codecFor(filename)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	e := enc(&buf)
	if err := e.Encode(s); err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if c, ok := e.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("encode settings: %w", err)
		}
	}
	if err := os.WriteFile(filename, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
