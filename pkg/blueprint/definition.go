package blueprint

import (
	"fmt"
	"os"

	"github.com/junbin-yang/go-hfsm/pkg/config"
)

// Definition 以声明方式描述一个状态机及其并行区域
type Definition struct {
	Name     string       `yaml:"name" json:"name"`
	Default  string       `yaml:"default" json:"default"` // 初始顶层状态，为空时使用第一个
	States   []StateDef   `yaml:"states" json:"states"`
	Parallel []Definition `yaml:"parallel" json:"parallel"`
}

// StateDef 状态节点定义，名称同时是目录中的键
type StateDef struct {
	Name         string `yaml:"name" json:"name"`
	Default      string `yaml:"default" json:"default"` // 初始子状态，为空时使用第一个
	ParentUpdate bool   `yaml:"parent_update" json:"parent_update"`

	OnEnter   string       `yaml:"on_enter" json:"on_enter"`
	OnUpdate  string       `yaml:"on_update" json:"on_update"`
	OnExit    string       `yaml:"on_exit" json:"on_exit"`
	EnterFrom []SpecialDef `yaml:"enter_from" json:"enter_from"`
	ExitTo    []SpecialDef `yaml:"exit_to" json:"exit_to"`

	Transitions []TransitionDef `yaml:"transitions" json:"transitions"`
	Substates   []StateDef      `yaml:"substates" json:"substates"`
}

// SpecialDef on_enter_from / on_exit_to 回调定义
type SpecialDef struct {
	State       string `yaml:"state" json:"state"`
	Handler     string `yaml:"handler" json:"handler"`
	CallGeneric bool   `yaml:"call_generic" json:"call_generic"`
}

// TransitionDef 转换定义
//   - To 非空：无条件转换，设置 Guard 时为守卫转换
//   - Yield 为 true：yield 转换，不能设置 To
//   - Auto 非空：为该转换添加自动守卫
type TransitionDef struct {
	On    string `yaml:"on" json:"on"`
	To    string `yaml:"to" json:"to"`
	Guard string `yaml:"guard" json:"guard"`
	Yield bool   `yaml:"yield" json:"yield"`
	Auto  string `yaml:"auto" json:"auto"`
}

// Load 从 YAML/JSON 文件加载定义
func Load(path string) (*Definition, error) {
	s, err := config.SerializerFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	def, err := Parse(data, s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// Parse 解析定义，INI 无法表达嵌套列表，不支持
func Parse(data []byte, s config.Serializer) (*Definition, error) {
	if _, ok := s.(config.INISerializer); ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, s.Name())
	}

	def := &Definition{}
	if err := s.Unmarshal(data, def); err != nil {
		return nil, err
	}
	if len(def.States) == 0 {
		return nil, fmt.Errorf("%w: %q has no states", ErrInvalidDefinition, def.Name)
	}
	return def, nil
}
