package autoplay

import (
	"fmt"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/vovakirdan/tui-2048/internal/board"
	"github.com/vovakirdan/tui-2048/internal/engine"
)

// luaEntry is the global function a strategy script must define.
const luaEntry = "next_move"

// LuaStrategy runs a user script that receives the grid as a 1-indexed table
// of rows and returns a direction symbol ("up", "w", "left", ...).
//
// Scripts may call preview(dir), which returns whether dir would change the
// current grid and the score it would gain.
type LuaStrategy struct {
	name    string
	state   *lua.LState
	fn      lua.LValue
	current board.Grid
}

// NewLuaStrategy loads the script at path.
func NewLuaStrategy(path string) (*LuaStrategy, error) {
	L := lua.NewState()

	s := &LuaStrategy{
		name:  "lua:" + strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		state: L,
	}
	L.SetGlobal("preview", L.NewFunction(s.preview))

	if err := L.DoFile(path); err != nil {
		L.Close()
		return nil, fmt.Errorf("autoplay: load %s: %w", path, err)
	}

	s.fn = L.GetGlobal(luaEntry)
	if s.fn.Type() != lua.LTFunction {
		L.Close()
		return nil, fmt.Errorf("autoplay: %s does not define %s(board)", path, luaEntry)
	}
	return s, nil
}

func (s *LuaStrategy) Name() string { return s.name }

// NextMove calls next_move(board). A symbol that does not parse, or names a
// direction that changes nothing, falls back to the corner order.
func (s *LuaStrategy) NextMove(g board.Grid) (board.Direction, error) {
	s.current = g

	L := s.state
	if err := L.CallByParam(lua.P{Fn: s.fn, NRet: 1, Protect: true}, gridTable(L, g)); err != nil {
		return board.DirNone, fmt.Errorf("autoplay: %s: %w", s.name, err)
	}
	ret := L.Get(-1)
	L.Pop(1)

	dir := board.ParseDirection(lua.LVAsString(ret))
	if dir.Valid() {
		if _, st := engine.Shift(g, dir); st.Changed {
			return dir, nil
		}
	}
	return firstLegal(g, cornerOrder), nil
}

// Close releases the Lua state.
func (s *LuaStrategy) Close() {
	s.state.Close()
}

// preview implements the preview(dir) Lua builtin.
func (s *LuaStrategy) preview(L *lua.LState) int {
	dir := board.ParseDirection(L.CheckString(1))
	_, st := engine.Shift(s.current, dir)
	L.Push(lua.LBool(st.Changed))
	L.Push(lua.LNumber(st.Gained))
	return 2
}

// gridTable converts g into a Lua table of row tables.
func gridTable(L *lua.LState, g board.Grid) *lua.LTable {
	rows := L.CreateTable(len(g), 0)
	for _, r := range g {
		row := L.CreateTable(len(r), 0)
		for _, v := range r {
			row.Append(lua.LNumber(v))
		}
		rows.Append(row)
	}
	return rows
}
