package systems

import (
	"math"

	"github.com/gonewx/tears-of-aya/pkg/components"
	"github.com/gonewx/tears-of-aya/pkg/ecs"
)

// InputController 将指针/触摸位置映射到接取器的水平位置
//
// 输入可能在两帧之间任意时刻到达,这里只记录最新的目标,
// 真正写入接取器位置发生在下一帧开头的 Apply,因此一帧内看到的状态始终一致。
type InputController struct {
	entityManager *ecs.EntityManager
	catcher       ecs.EntityID
	attached      bool

	targetX   float64 // 指针位置(接取器中心)
	hasTarget bool
	pendingDX float64 // 键盘累积的相对位移
}

// NewInputController 创建输入控制器(未绑定接取器)
func NewInputController(em *ecs.EntityManager) *InputController {
	return &InputController{entityManager: em}
}

// Attach 绑定接取器并清除旧输入
func (c *InputController) Attach(catcher ecs.EntityID) {
	c.catcher = catcher
	c.attached = true
	c.hasTarget = false
	c.pendingDX = 0
}

// Detach 解除绑定,之后的输入被忽略,可重复调用
func (c *InputController) Detach() {
	c.attached = false
	c.catcher = 0
	c.hasTarget = false
	c.pendingDX = 0
}

// IsAttached 是否已绑定接取器
func (c *InputController) IsAttached() bool { return c.attached }

// SetPointerX 设置指针在游戏区域中的 X 坐标,接取器中心会对齐到该位置
func (c *InputController) SetPointerX(x float64) {
	if !c.attached || math.IsNaN(x) || math.IsInf(x, 0) {
		return
	}
	c.targetX = x
	c.hasTarget = true
	c.pendingDX = 0
}

// Nudge 按相对位移移动接取器(键盘输入)
func (c *InputController) Nudge(dx float64) {
	if !c.attached || math.IsNaN(dx) || math.IsInf(dx, 0) {
		return
	}
	c.pendingDX += dx
}

// Apply 将待处理的输入写入接取器位置,结果钳制在 [0, W - width]
func (c *InputController) Apply() {
	if !c.attached || (!c.hasTarget && c.pendingDX == 0) {
		return
	}

	pos, ok := ecs.GetComponent[*components.PositionComponent](c.entityManager, c.catcher)
	if !ok {
		return
	}
	col, ok := ecs.GetComponent[*components.CollisionComponent](c.entityManager, c.catcher)
	if !ok {
		return
	}
	catcher, ok := ecs.GetComponent[*components.CatcherComponent](c.entityManager, c.catcher)
	if !ok {
		return
	}

	x := pos.X
	if c.hasTarget {
		x = c.targetX - col.Width/2
	}
	x += c.pendingDX

	pos.X = math.Max(0, math.Min(x, catcher.PlayfieldWidth-col.Width))
	c.hasTarget = false
	c.pendingDX = 0
}
