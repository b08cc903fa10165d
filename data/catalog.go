package data

import (
	"fmt"
	"sort"

	"duel-engine/core"
)

// ActionCatalog はアクション定義のレジストリです。
// 型やコストの意味づけは下流（選択・解決）で扱うため、ここでは存在チェックのみ行います。
type ActionCatalog struct {
	actions map[string]core.ActionDefinition
}

// NewActionCatalog は空のカタログを生成します。
func NewActionCatalog() *ActionCatalog {
	return &ActionCatalog{actions: make(map[string]core.ActionDefinition)}
}

// Register はアクション定義を登録します。同じIDは上書きされます。
func (c *ActionCatalog) Register(id string, def core.ActionDefinition) error {
	if id == "" {
		return fmt.Errorf("action id must not be empty")
	}
	def = def.Clone()
	def.ID = id
	c.actions[id] = def
	return nil
}

// Get は登録済みの定義のコピーを返します。
func (c *ActionCatalog) Get(id string) (core.ActionDefinition, bool) {
	def, ok := c.actions[id]
	if !ok {
		return core.ActionDefinition{}, false
	}
	return def.Clone(), true
}

// IDs は登録済みのアクションIDをソートして返します。
func (c *ActionCatalog) IDs() []string {
	ids := make([]string, 0, len(c.actions))
	for id := range c.actions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (c *ActionCatalog) Len() int {
	return len(c.actions)
}
