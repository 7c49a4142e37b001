package catalog

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"copystudio-api/internal/domain/entity"
)

// fileDocument YAML 目录文件结构
type fileDocument struct {
	Templates []entity.Template `yaml:"templates"`
}

// ParseYAML 解析 YAML 目录
func ParseYAML(data []byte) ([]entity.Template, error) {
	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog yaml: %w", err)
	}
	if err := Validate(doc.Templates); err != nil {
		return nil, err
	}
	return doc.Templates, nil
}

// FileSource 从 YAML 文件读取目录
type FileSource struct {
	Path string
}

func (s FileSource) Load(_ context.Context) ([]entity.Template, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file %s: %w", s.Path, err)
	}
	return ParseYAML(data)
}
