package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v2"
)

// Serializer 定义序列化/反序列化接口，支持扩展不同格式
type Serializer interface {
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
	Exts() []string // 文件扩展名，第一个为首选
	Name() string
}

// YAMLSerializer YAML 格式
type YAMLSerializer struct{}

func (YAMLSerializer) Marshal(v interface{}) ([]byte, error)      { return yaml.Marshal(v) }
func (YAMLSerializer) Unmarshal(data []byte, v interface{}) error { return yaml.UnmarshalStrict(data, v) }
func (YAMLSerializer) Exts() []string                             { return []string{".yml", ".yaml"} }
func (YAMLSerializer) Name() string                               { return "yaml" }

// JSONSerializer JSON 格式，输出带缩进
type JSONSerializer struct{}

func (JSONSerializer) Marshal(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

func (JSONSerializer) Unmarshal(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func (JSONSerializer) Exts() []string { return []string{".json"} }
func (JSONSerializer) Name() string   { return "json" }

// INISerializer INI 格式，结构体字段映射为分区
type INISerializer struct{}

func (INISerializer) Marshal(v interface{}) ([]byte, error) {
	cfg := ini.Empty()
	if err := cfg.ReflectFrom(v); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := cfg.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (INISerializer) Unmarshal(data []byte, v interface{}) error {
	cfg, err := ini.Load(data)
	if err != nil {
		return err
	}
	return cfg.MapTo(v)
}

func (INISerializer) Exts() []string { return []string{".ini"} }
func (INISerializer) Name() string   { return "ini" }

// Formats 内置支持的格式
func Formats() []Serializer {
	return []Serializer{YAMLSerializer{}, JSONSerializer{}, INISerializer{}}
}

// SerializerFor 根据文件扩展名选择格式
func SerializerFor(path string) (Serializer, error) {
	return serializerFor(path, Formats())
}

func serializerFor(path string, formats []Serializer) (Serializer, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, f := range formats {
		for _, e := range f.Exts() {
			if e == ext {
				return f, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
}
