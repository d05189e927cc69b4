package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// replacePathVars 替换路径模板变量，如 {{.AppName}}
func replacePathVars(tpl string, vars map[string]string) string {
	result := tpl
	for k, v := range vars {
		result = strings.ReplaceAll(result, "{{."+k+"}}", v)
	}
	return result
}

// checkFile 路径必须是已存在的普通文件
func checkFile(path string) error {
	if path == "" {
		return fmt.Errorf("%w: path is empty", ErrNotFound)
	}

	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrNotFound, path)
	}
	return nil
}

// writeFileAtomic 先写临时文件再替换，避免写入中断导致文件损坏
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
