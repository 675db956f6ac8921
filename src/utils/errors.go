package utils

import (
	"errors"
	"fmt"
)

// ErrorKind 错误分类
type ErrorKind int

const (
	KindUnknown    ErrorKind = iota
	KindFileAccess           // 文件不存在、不可读或不可写
	KindParse                // CSV格式错误
	KindSchema               // 缺少预期列或列类型不符
	KindValue                // 单元格取值异常，可恢复
	KindRender               // 图表渲染失败
)

// 进程退出码
const (
	ExitOK         = 0
	ExitUnknown    = 1
	ExitFileAccess = 2
	ExitParse      = 3
	ExitSchema     = 4
	ExitRender     = 5
)

func (k ErrorKind) String() string {
	switch k {
	case KindFileAccess:
		return "FileAccessError"
	case KindParse:
		return "ParseError"
	case KindSchema:
		return "SchemaError"
	case KindValue:
		return "ValueError"
	case KindRender:
		return "RenderError"
	default:
		return "UnknownError"
	}
}

// PipelineError 流水线各阶段返回的错误
type PipelineError struct {
	Kind ErrorKind
	Op   string // 出错的阶段或操作
	Path string // 相关文件，可为空
	Err  error
}

func (e *PipelineError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Op)
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PipelineError) Unwrap() error { return e.Err }

func FileAccessError(op, path string, err error) error {
	return &PipelineError{Kind: KindFileAccess, Op: op, Path: path, Err: err}
}

func ParseError(op, path string, err error) error {
	return &PipelineError{Kind: KindParse, Op: op, Path: path, Err: err}
}

func SchemaError(op string, err error) error {
	return &PipelineError{Kind: KindSchema, Op: op, Err: err}
}

func ValueError(op string, err error) error {
	return &PipelineError{Kind: KindValue, Op: op, Err: err}
}

func RenderError(op, path string, err error) error {
	return &PipelineError{Kind: KindRender, Op: op, Path: path, Err: err}
}

// KindOf 返回错误链中第一个PipelineError的分类
func KindOf(err error) ErrorKind {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}

// IsKind 判断错误链中是否存在指定分类的错误
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

// ExitCode 将错误映射为进程退出码
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch KindOf(err) {
	case KindFileAccess:
		return ExitFileAccess
	case KindParse:
		return ExitParse
	case KindSchema:
		return ExitSchema
	case KindRender:
		return ExitRender
	default:
		return ExitUnknown
	}
}
