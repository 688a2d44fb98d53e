package script

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/dshills/undoredo/internal/engine/history"
)

// newModule builds the `undo` table exposed to scripts. Functions raise a Lua
// error on failure, so scripts can use pcall to recover.
func (s *State) newModule() *lua.LTable {
	return s.L.SetFuncs(s.L.NewTable(), map[string]lua.LGFunction{
		"register":        s.luaRegister,
		"undo":            s.luaUndo,
		"redo":            s.luaRedo,
		"can_undo":        s.luaCanUndo,
		"can_redo":        s.luaCanRedo,
		"begin":           s.luaBegin,
		"commit":          s.luaCommit,
		"rollback":        s.luaRollback,
		"commit_all":      s.luaCommitAll,
		"rollback_all":    s.luaRollbackAll,
		"set_action_name": s.luaSetActionName,
		"undo_name":       s.luaUndoName,
		"redo_name":       s.luaRedoName,
		"undo_title":      s.luaUndoTitle,
		"redo_title":      s.luaRedoTitle,
		"state":           s.luaState,
	})
}

// undo.register(target, method, ...)
func (s *State) luaRegister(L *lua.LState) int {
	target := L.CheckTable(1)
	method := L.CheckString(2)

	var args []any
	for i := 3; i <= L.GetTop(); i++ {
		args = append(args, L.Get(i))
	}

	err := s.manager.RegisterFrom(s.source, target, history.Operation{Name: method, Args: args})
	if err != nil {
		L.RaiseError("undo.register: %v", err)
	}
	return 0
}

// undo.undo()
func (s *State) luaUndo(L *lua.LState) int {
	if err := s.manager.Undo(); err != nil {
		s.logger.Debug("script undo failed", zap.Error(err))
		L.RaiseError("undo.undo: %v", err)
	}
	return 0
}

// undo.redo()
func (s *State) luaRedo(L *lua.LState) int {
	if err := s.manager.Redo(); err != nil {
		s.logger.Debug("script redo failed", zap.Error(err))
		L.RaiseError("undo.redo: %v", err)
	}
	return 0
}

func (s *State) luaCanUndo(L *lua.LState) int {
	L.Push(lua.LBool(s.manager.CanUndo()))
	return 1
}

func (s *State) luaCanRedo(L *lua.LState) int {
	L.Push(lua.LBool(s.manager.CanRedo()))
	return 1
}

// undo.begin([name]) opens a transaction; a name also becomes the sticky
// action name.
func (s *State) luaBegin(L *lua.LState) int {
	name := L.OptString(1, "")
	tx := s.manager.CreateTransaction()
	if name != "" {
		s.manager.SetActionName(name)
	}
	s.txs = append(s.txs, tx)
	return 0
}

// undo.commit() commits the innermost transaction opened by undo.begin.
func (s *State) luaCommit(L *lua.LState) int {
	tx := s.popTransaction(L)
	if err := tx.Commit(); err != nil {
		L.RaiseError("undo.commit: %v", err)
	}
	return 0
}

// undo.rollback() rolls back the innermost transaction opened by undo.begin.
func (s *State) luaRollback(L *lua.LState) int {
	tx := s.popTransaction(L)
	if err := tx.Rollback(); err != nil {
		L.RaiseError("undo.rollback: %v", err)
	}
	return 0
}

func (s *State) luaCommitAll(L *lua.LState) int {
	s.txs = nil
	if err := s.manager.CommitTransactions(); err != nil {
		L.RaiseError("undo.commit_all: %v", err)
	}
	return 0
}

func (s *State) luaRollbackAll(L *lua.LState) int {
	s.txs = nil
	if err := s.manager.RollbackTransactions(); err != nil {
		L.RaiseError("undo.rollback_all: %v", err)
	}
	return 0
}

func (s *State) popTransaction(L *lua.LState) *history.Transaction {
	// Drop transactions already finished through an enclosing commit.
	for len(s.txs) > 0 && s.txs[len(s.txs)-1].IsFinished() {
		s.txs = s.txs[:len(s.txs)-1]
	}
	if len(s.txs) == 0 {
		L.RaiseError("%v", ErrNoScriptTransaction)
		return nil
	}
	tx := s.txs[len(s.txs)-1]
	s.txs = s.txs[:len(s.txs)-1]
	return tx
}

func (s *State) luaSetActionName(L *lua.LState) int {
	s.manager.SetActionName(L.OptString(1, ""))
	return 0
}

func (s *State) luaUndoName(L *lua.LState) int {
	L.Push(lua.LString(s.manager.UndoActionName()))
	return 1
}

func (s *State) luaRedoName(L *lua.LState) int {
	L.Push(lua.LString(s.manager.RedoActionName()))
	return 1
}

func (s *State) luaUndoTitle(L *lua.LState) int {
	L.Push(lua.LString(s.manager.UndoMenuItemTitle()))
	return 1
}

func (s *State) luaRedoTitle(L *lua.LState) int {
	L.Push(lua.LString(s.manager.RedoMenuItemTitle()))
	return 1
}

func (s *State) luaState(L *lua.LState) int {
	L.Push(lua.LString(s.manager.State().String()))
	return 1
}
