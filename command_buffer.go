package main

import (
	"github.com/yohamta/donburi"
)

// CommandBuffer は構造的な変更（コンポーネントの着脱・despawn・spawn）を
// 溜めておき、システムの読み取りが終わった後にまとめて適用するためのキュー。
// クエリの走査中にアーキタイプを動かすと走査が壊れるので、走査中のシステムは
// 直接の構造変更をせず必ずここを経由する。数値の書き換え（HP・座標など）は
// 即時反映が必要なので対象外（直接書く）。
//
// 適用時には対象エンティティの生存を確認し、消えていれば黙って読み飛ばす。
// despawn済みエンティティへの遅延操作は仕様上エラーではない。
type CommandBuffer struct {
	commands []command
}

type command struct {
	target donburi.Entity // ゼロ値なら対象チェックなし（spawnなど）
	apply  func(w donburi.World)
}

func NewCommandBuffer() *CommandBuffer {
	return &CommandBuffer{}
}

// Defer はエンティティに紐づく操作を積む。
// 適用時点でtargetが消えていれば何もしない。
func (b *CommandBuffer) Defer(target donburi.Entity, apply func(w donburi.World, entry *donburi.Entry)) {
	b.commands = append(b.commands, command{
		target: target,
		apply: func(w donburi.World) {
			if !w.Valid(target) {
				return
			}
			apply(w, w.Entry(target))
		},
	})
}

// DeferWorld はエンティティに紐づかない操作（spawnなど）を積む
func (b *CommandBuffer) DeferWorld(apply func(w donburi.World)) {
	b.commands = append(b.commands, command{apply: apply})
}

// Despawn はエンティティの削除を積む
func (b *CommandBuffer) Despawn(target donburi.Entity) {
	b.commands = append(b.commands, command{
		target: target,
		apply: func(w donburi.World) {
			if !w.Valid(target) {
				return
			}
			w.Remove(target)
		},
	})
}

// RemoveComponent は指定コンポーネントの取り外しを積む。
// 既に外れていた場合も何もしない。
func (b *CommandBuffer) RemoveComponent(target donburi.Entity, ctype donburi.IComponentType) {
	b.Defer(target, func(w donburi.World, entry *donburi.Entry) {
		if entry.HasComponent(ctype) {
			entry.RemoveComponent(ctype)
		}
	})
}

// Flush は積まれた操作を積まれた順に適用してキューを空にする。
// 適用中に積まれた操作（spawn処理が更に積むなど）も同じFlushで処理される。
func (b *CommandBuffer) Flush(w donburi.World) {
	for len(b.commands) > 0 {
		cmds := b.commands
		b.commands = nil
		for _, c := range cmds {
			c.apply(w)
		}
	}
}

// Len は未適用の操作数を返す
func (b *CommandBuffer) Len() int {
	return len(b.commands)
}
