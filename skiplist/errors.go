package skiplist

import "github.com/pkg/errors"

var (
	// ErrInvalidInput 由 Put 在 key 或 value 不存在時回傳
	ErrInvalidInput = errors.New("invalid key or value")

	// ErrBrokenTower 表示升階時往回走找不到可以往上的 tower，
	// 只會以 panic 拋出，不會回傳
	ErrBrokenTower = errors.New("no ancestor tower on promotion walk")

	// ErrBrokenStruct 由結構檢查回傳
	ErrBrokenStruct = errors.New("skip list structure broken")

	// ErrArenaFull 表示節點數超過 NodeID 能表示的範圍，以 panic 拋出
	ErrArenaFull = errors.New("node arena exceeds NodeID range")
)
