// Package flagx 结构体与命令行参数的双向绑定
//
//	type checkFlags struct {
//	    ConfigDir string `flag:"config-dir,c" usage:"config directory" default:"./configs"`
//	    MaxDepth  int    `flag:"max-depth" usage:"override resolver.max_depth" config:"resolver.max_depth"`
//	}
//
//	var f checkFlags
//	flagx.BindFlags(cmd.Flags(), &f)      // 注册
//	flagx.ParseFlags(cmd.Flags(), &f)     // 解析后回填
//
// `config` tag 由 config.FlagSource 读取，回填后的结构体可以直接作为最高优先级的配置源。
package flagx

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// flagField 一个带 flag tag 的字段
type flagField struct {
	index    int
	name     string
	short    string
	usage    string
	def      string
	required bool
	kind     reflect.Type
}

// RequiredAnnotation cobra 的必填标记（与 cobra.BashCompOneRequiredFlag 相同）
const RequiredAnnotation = "cobra_annotation_bash_completion_one_required_flag"

// BindFlags 按 tag 在 fs 上注册参数
// 支持的 tag：flag（必填，"name,short"）、usage、default、required
func BindFlags(fs *pflag.FlagSet, target interface{}) error {
	_, fields, err := inspect(target)
	if err != nil {
		return err
	}

	for _, f := range fields {
		if err := register(fs, f); err != nil {
			return err
		}
		if f.required {
			if err := fs.SetAnnotation(f.name, RequiredAnnotation, []string{"true"}); err != nil {
				return err
			}
		}
	}
	return nil
}

// ParseFlags 将 fs 中的值回填到 target
// fs 中不存在的参数保持字段原值。
func ParseFlags(fs *pflag.FlagSet, target interface{}) error {
	v, fields, err := inspect(target)
	if err != nil {
		return err
	}

	for _, f := range fields {
		if fs.Lookup(f.name) == nil {
			continue
		}
		if err := assign(fs, v.Field(f.index), f.name); err != nil {
			return fmt.Errorf("parse field %s: %w", v.Type().Field(f.index).Name, err)
		}
	}
	return nil
}

func inspect(target interface{}) (reflect.Value, []flagField, error) {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, nil, fmt.Errorf("target must be a pointer to struct")
	}
	v = v.Elem()
	t := v.Type()

	var fields []flagField
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag := sf.Tag.Get("flag")
		if tag == "" || !sf.IsExported() {
			continue
		}
		name, short, _ := strings.Cut(tag, ",")
		fields = append(fields, flagField{
			index:    i,
			name:     name,
			short:    short,
			usage:    sf.Tag.Get("usage"),
			def:      sf.Tag.Get("default"),
			required: sf.Tag.Get("required") == "true",
			kind:     sf.Type,
		})
	}
	return v, fields, nil
}

func register(fs *pflag.FlagSet, f flagField) error {
	switch f.kind.Kind() {
	case reflect.String:
		fs.StringP(f.name, f.short, f.def, f.usage)
	case reflect.Int:
		def := 0
		if f.def != "" {
			n, err := strconv.Atoi(f.def)
			if err != nil {
				return fmt.Errorf("flag %s: invalid default %q", f.name, f.def)
			}
			def = n
		}
		fs.IntP(f.name, f.short, def, f.usage)
	case reflect.Bool:
		def := false
		if f.def != "" {
			b, err := strconv.ParseBool(f.def)
			if err != nil {
				return fmt.Errorf("flag %s: invalid default %q", f.name, f.def)
			}
			def = b
		}
		fs.BoolP(f.name, f.short, def, f.usage)
	case reflect.Slice:
		if f.kind.Elem().Kind() != reflect.String {
			return fmt.Errorf("flag %s: unsupported slice element type %s", f.name, f.kind.Elem().Kind())
		}
		var def []string
		if f.def != "" {
			def = strings.Split(f.def, ",")
		}
		fs.StringSliceP(f.name, f.short, def, f.usage)
	default:
		return fmt.Errorf("flag %s: unsupported field type %s", f.name, f.kind.Kind())
	}
	return nil
}

func assign(fs *pflag.FlagSet, field reflect.Value, name string) error {
	switch field.Kind() {
	case reflect.String:
		val, err := fs.GetString(name)
		if err != nil {
			return err
		}
		field.SetString(val)
	case reflect.Int:
		val, err := fs.GetInt(name)
		if err != nil {
			return err
		}
		field.SetInt(int64(val))
	case reflect.Bool:
		val, err := fs.GetBool(name)
		if err != nil {
			return err
		}
		field.SetBool(val)
	case reflect.Slice:
		val, err := fs.GetStringSlice(name)
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(val))
	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}
	return nil
}
