package history

import (
	"fmt"
	"slices"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// Manager records invocations into transactions and replays them for undo
// and redo. It owns three stacks: the undo history, the redo history and the
// currently open (possibly nested) transactions.
//
// Replaying a transaction runs operations that are expected to register their
// own inverses; the manager captures those registrations into the opposite
// history, which is how redo entries come into existence.
//
// Manager is not safe for concurrent use.
type Manager struct {
	undoStack []*Transaction
	redoStack []*Transaction
	open      []*Transaction

	state      State
	actionName string

	// Configuration
	logger            *zap.Logger
	lang              language.Tag
	levelsOfUndo      int
	clearRedoOnAction bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for debug tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithLanguage sets the language of the menu item titles.
func WithLanguage(tag language.Tag) Option {
	return func(m *Manager) {
		m.lang = tag
	}
}

// WithLevelsOfUndo limits the undo history to n entries, dropping the oldest.
// Zero or less means unlimited.
func WithLevelsOfUndo(n int) Option {
	return func(m *Manager) {
		m.levelsOfUndo = max(n, 0)
	}
}

// WithClearRedoOnNewAction makes every action committed outside undo and redo
// discard the redo history. Off by default: redo entries survive unrelated
// registrations.
func WithClearRedoOnNewAction(enable bool) Option {
	return func(m *Manager) {
		m.clearRedoOnAction = enable
	}
}

// NewManager creates an idle manager with empty histories.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		logger: zap.NewNop(),
		lang:   language.English,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current state. It is always StateIdle between calls.
func (m *Manager) State() State {
	return m.state
}

// IsUndoing returns true while an undo is in progress.
func (m *Manager) IsUndoing() bool {
	return m.state == StateUndoing
}

// IsRedoing returns true while a redo is in progress.
func (m *Manager) IsRedoing() bool {
	return m.state == StateRedoing
}

// CanUndo returns true if there is committed history or an open transaction.
func (m *Manager) CanUndo() bool {
	return len(m.undoStack) > 0 || len(m.open) > 0
}

// CanRedo returns true if redo is available.
func (m *Manager) CanRedo() bool {
	return len(m.redoStack) > 0
}

// UndoCount returns the number of committed undo entries.
func (m *Manager) UndoCount() int {
	return len(m.undoStack)
}

// RedoCount returns the number of redo entries.
func (m *Manager) RedoCount() int {
	return len(m.redoStack)
}

// OpenCount returns the nesting depth of open transactions.
func (m *Manager) OpenCount() int {
	return len(m.open)
}

// LevelsOfUndo returns the undo history limit, 0 when unlimited.
func (m *Manager) LevelsOfUndo() int {
	return m.levelsOfUndo
}

// RegisterInvocation records inv in the innermost open transaction, or in a
// transaction of its own that is committed immediately. Registrations made
// while rolling back are ignored.
func (m *Manager) RegisterInvocation(inv Invocation) error {
	if isNil(inv) {
		return newArgumentError("invocation")
	}

	if m.state == StateRollingBack {
		return nil
	}

	if tx := m.recording(); tx != nil {
		return tx.Register(inv)
	}

	tx := m.createTransaction(m.actionName)
	if err := tx.Register(inv); err != nil {
		// Unreachable for a non-nil invocation; keep the open stack clean.
		_ = tx.Rollback()
		return err
	}
	return tx.Close()
}

// Register records a call of fn against target.
func Register[T any](m *Manager, target T, fn func(T) error) error {
	inv, err := NewExpression(target, fn)
	if err != nil {
		return err
	}
	return m.RegisterInvocation(inv)
}

// RegisterAction records a call of fn with arg.
func RegisterAction[A any](m *Manager, fn func(A) error, arg A) error {
	inv, err := NewAction(fn, arg)
	if err != nil {
		return err
	}
	return m.RegisterInvocation(inv)
}

// RegisterFrom asks src for an invocation of op against target and records it.
func (m *Manager) RegisterFrom(src Source, target any, op Operation) error {
	if src == nil {
		return newArgumentError("source")
	}
	if isNil(target) {
		return newArgumentError("target")
	}
	inv, err := src.Capture(target, op)
	if err != nil {
		return fmt.Errorf("capture %s: %w", op.Name, err)
	}
	return m.RegisterInvocation(inv)
}

// CreateTransaction opens a transaction nested inside any currently open one.
// The caller finishes it with Commit, Rollback or Close.
func (m *Manager) CreateTransaction() *Transaction {
	return m.createTransaction(m.actionName)
}

// CommitTransactions commits the outermost open transaction and with it
// every transaction nested inside.
func (m *Manager) CommitTransactions() error {
	if len(m.open) == 0 {
		return ErrNoOpenTransaction
	}
	return m.open[0].Commit()
}

// RollbackTransactions rolls back the outermost open transaction and with it
// every transaction nested inside.
func (m *Manager) RollbackTransactions() error {
	if len(m.open) == 0 {
		return ErrNoOpenTransaction
	}
	return m.open[0].Rollback()
}

// CommitTransaction implements TransactionManager.
//
// Open transactions are popped down to and including tx. Empty ones are
// discarded and non-empty ones are folded into their parent. Once the stack
// is empty the last popped transaction is filed into the undo history (the
// redo history while undoing).
func (m *Manager) CommitTransaction(tx *Transaction) error {
	if tx == nil {
		return newArgumentError("transaction")
	}
	if !m.isOpen(tx) {
		return ErrTransactionNotOpen
	}

	prev := m.state
	next := prev
	if prev == StateIdle {
		next = StateCommitting
	}
	defer m.enterState(next)()

	for {
		top := m.pop()

		if !top.IsEmpty() {
			if parent := m.recording(); parent != nil {
				if err := parent.Register(top); err != nil {
					return err
				}
			} else {
				m.file(top, prev)
			}
		}

		if top == tx {
			return nil
		}
	}
}

// RollbackTransaction implements TransactionManager.
//
// Open transactions are popped down to and including tx, and each one is
// invoked so its recorded operations revert what it captured. Nothing is
// filed into either history. Every popped transaction is invoked even if an
// earlier one fails; the failures are returned together.
func (m *Manager) RollbackTransaction(tx *Transaction) error {
	if tx == nil {
		return newArgumentError("transaction")
	}
	if !m.isOpen(tx) {
		return ErrTransactionNotOpen
	}

	defer m.enterState(StateRollingBack)()

	var result *multierror.Error
	for {
		top := m.pop()
		m.logger.Debug("rolling back transaction",
			zap.Stringer("id", top.ID()),
			zap.String("action", top.ActionName()),
			zap.Int("invocations", top.Len()),
		)
		if err := top.Invoke(); err != nil {
			result = multierror.Append(result, err)
		}
		if top == tx {
			return result.ErrorOrNil()
		}
	}
}

// Undo replays the most recent undo entry. Open transactions are committed
// first. Operations registered while replaying are collected into a new
// transaction that lands in the redo history.
func (m *Manager) Undo() error {
	if len(m.open) > 0 {
		if err := m.CommitTransactions(); err != nil {
			return err
		}
	}
	if len(m.undoStack) == 0 {
		return ErrNothingToUndo
	}

	defer m.enterState(StateUndoing)()

	entry := m.undoStack[len(m.undoStack)-1]
	m.undoStack = m.undoStack[:len(m.undoStack)-1]

	m.logger.Debug("undo",
		zap.Stringer("id", entry.ID()),
		zap.String("action", entry.ActionName()),
	)
	return m.replay(entry)
}

// Redo replays the most recent redo entry. Operations registered while
// replaying are collected into a new transaction that lands in the undo
// history.
func (m *Manager) Redo() error {
	if len(m.open) > 0 {
		if err := m.CommitTransactions(); err != nil {
			return err
		}
	}
	if len(m.redoStack) == 0 {
		return ErrNothingToRedo
	}

	defer m.enterState(StateRedoing)()

	entry := m.redoStack[len(m.redoStack)-1]
	m.redoStack = m.redoStack[:len(m.redoStack)-1]

	m.logger.Debug("redo",
		zap.Stringer("id", entry.ID()),
		zap.String("action", entry.ActionName()),
	)
	return m.replay(entry)
}

// replay invokes entry inside a recording transaction named after it. The
// recording transaction is committed on every path, so a partially replayed
// entry still leaves its captured inverses in history.
func (m *Manager) replay(entry *Transaction) (err error) {
	recorder := m.createTransaction(entry.ActionName())
	defer func() {
		if cerr := recorder.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return invokeAction(entry)
}

// invokeAction runs inv and wraps any error or panic in an ActionInvocationError.
func invokeAction(tx *Transaction) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ActionInvocationError{Action: tx.ActionName(), Err: &PanicError{Value: r}}
		}
	}()

	if ierr := tx.Invoke(); ierr != nil {
		return &ActionInvocationError{Action: tx.ActionName(), Err: ierr}
	}
	return nil
}

// SetActionName sets the label applied to transactions created from now on
// and relabels the innermost open transaction, so it may be called right
// before or right after an undoable action begins.
func (m *Manager) SetActionName(name string) {
	m.actionName = name
	if tx := m.recording(); tx != nil {
		tx.SetActionName(name)
	}
}

// ActionName returns the label applied to new transactions.
func (m *Manager) ActionName() string {
	return m.actionName
}

// UndoActionName returns the label of the entry Undo would replay, or "".
func (m *Manager) UndoActionName() string {
	if len(m.undoStack) == 0 {
		return ""
	}
	return m.undoStack[len(m.undoStack)-1].ActionName()
}

// RedoActionName returns the label of the entry Redo would replay, or "".
func (m *Manager) RedoActionName() string {
	if len(m.redoStack) == 0 {
		return ""
	}
	return m.redoStack[len(m.redoStack)-1].ActionName()
}

// UndoMenuItemTitle returns the localized undo menu title, e.g. `Undo "Typing"`.
func (m *Manager) UndoMenuItemTitle() string {
	return UndoMenuTitle(m.lang, m.UndoActionName())
}

// RedoMenuItemTitle returns the localized redo menu title, e.g. `Redo "Typing"`.
func (m *Manager) RedoMenuItemTitle() string {
	return RedoMenuTitle(m.lang, m.RedoActionName())
}

// createTransaction pushes a new open transaction labelled name.
func (m *Manager) createTransaction(name string) *Transaction {
	tx, _ := NewTransaction(m) // m is never nil
	tx.SetActionName(name)
	m.open = append(m.open, tx)

	m.logger.Debug("transaction opened",
		zap.Stringer("id", tx.ID()),
		zap.String("action", name),
		zap.Int("depth", len(m.open)),
		zap.Stringer("state", m.state),
	)
	return tx
}

// recording returns the innermost open transaction or nil.
func (m *Manager) recording() *Transaction {
	if len(m.open) == 0 {
		return nil
	}
	return m.open[len(m.open)-1]
}

func (m *Manager) isOpen(tx *Transaction) bool {
	return slices.Contains(m.open, tx)
}

// pop removes the innermost open transaction and marks it finished.
func (m *Manager) pop() *Transaction {
	last := len(m.open) - 1
	tx := m.open[last]
	m.open[last] = nil
	m.open = m.open[:last]
	tx.finish()
	return tx
}

// file pushes a committed transaction onto the history matching prev, the
// state the manager was in before the commit began.
func (m *Manager) file(tx *Transaction, prev State) {
	switch prev {
	case StateRollingBack:
		m.logger.Debug("transaction discarded during rollback",
			zap.Stringer("id", tx.ID()),
			zap.String("action", tx.ActionName()),
		)
		return
	case StateUndoing:
		m.redoStack = append(m.redoStack, tx)
		m.logger.Debug("transaction filed",
			zap.Stringer("id", tx.ID()),
			zap.String("action", tx.ActionName()),
			zap.String("history", "redo"),
		)
		return
	case StateIdle:
		if m.clearRedoOnAction {
			m.redoStack = nil
		}
	}

	m.undoStack = append(m.undoStack, tx)
	if m.levelsOfUndo > 0 && len(m.undoStack) > m.levelsOfUndo {
		excess := len(m.undoStack) - m.levelsOfUndo
		m.undoStack = slices.Delete(m.undoStack, 0, excess)
	}

	m.logger.Debug("transaction filed",
		zap.Stringer("id", tx.ID()),
		zap.String("action", tx.ActionName()),
		zap.String("history", "undo"),
	)
}
