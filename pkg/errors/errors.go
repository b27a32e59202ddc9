package errors

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Kind 错误类别，调用方据此决定是否修正输入或原样重试
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindDuplicateKey
	KindConflict
	KindInvariant
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindDuplicateKey:
		return "duplicate_key"
	case KindConflict:
		return "conflict"
	case KindInvariant:
		return "invariant_violation"
	case KindTransient:
		return "transient"
	default:
		return "internal"
	}
}

// ── 类别哨兵（配合 errors.Is 使用） ──

var (
	ErrNotFound           = &Error{Kind: KindNotFound, Message: "记录不存在"}
	ErrDuplicateKey       = &Error{Kind: KindDuplicateKey, Message: "唯一键冲突"}
	ErrConflict           = &Error{Kind: KindConflict, Message: "资源冲突"}
	ErrInvariantViolation = &Error{Kind: KindInvariant, Message: "违反业务约束"}
	ErrTransient          = &Error{Kind: KindTransient, Message: "存储暂时不可用，请重试"}
	ErrInternal           = &Error{Kind: KindInternal, Message: "内部错误"}
)

// Error 带类别的业务错误
type Error struct {
	Kind    Kind
	Message string
	Err     error // 底层错误（可选）
}

// New 创建指定类别的错误
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap 以指定类别包装底层错误
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is 同类别的哨兵视为匹配；具体错误值之间按指针比较
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e == t {
		return true
	}
	return isKindSentinel(t) && t.Kind == e.Kind
}

func isKindSentinel(e *Error) bool {
	switch e {
	case ErrNotFound, ErrDuplicateKey, ErrConflict, ErrInvariantViolation, ErrTransient, ErrInternal:
		return true
	}
	return false
}

// KindOf 返回错误链上第一个 *Error 的类别，没有则视为 Internal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsTransient 报告调用方是否可以原样重试
func IsTransient(err error) bool {
	return err != nil && KindOf(err) == KindTransient
}

// ── 存储层错误归类 ──

// PostgreSQL SQLSTATE
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
	codeNotNullViolation     = "23502"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
	codeQueryCanceled        = "57014"
)

// conflictConstraints 唯一索引冲突中代表“占用冲突”而非“重复键”的约束
var conflictConstraints = map[string]bool{
	"uq_class_sessions_active_booking": true,
	"uq_academic_periods_current":      true,
	"uq_semesters_current_per_period":  true,
}

// Classify 将 gorm / pgx / context 错误归为带类别的错误。
// 已分类的错误原样返回。
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Wrap(KindNotFound, "记录不存在", err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Wrap(KindTransient, "存储操作超时", err)
	}
	if errors.Is(err, context.Canceled) {
		return Wrap(KindInternal, "请求已取消", err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			if conflictConstraints[pgErr.ConstraintName] {
				return Wrap(KindConflict, "资源已被占用", err)
			}
			return Wrap(KindDuplicateKey, "唯一键冲突", err)
		case codeForeignKeyViolation:
			return Wrap(KindNotFound, "引用的记录不存在", err)
		case codeCheckViolation, codeNotNullViolation:
			return Wrap(KindInvariant, "违反数据约束", err)
		case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable, codeQueryCanceled:
			return Wrap(KindTransient, "并发冲突或超时，请重试", err)
		}
	}
	return Wrap(KindInternal, "存储操作失败", err)
}
