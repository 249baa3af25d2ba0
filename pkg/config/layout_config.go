package config

// 布局配置常量
// 逻辑屏幕与游戏区等大,Ebitengine 负责缩放到实际窗口

const (
	// GameWindowWidth 逻辑屏幕宽度(与变体 playfield.width 一致)
	GameWindowWidth = 480
	// GameWindowHeight 逻辑屏幕高度(与变体 playfield.height 一致)
	GameWindowHeight = 720

	// HUDMargin HUD 元素距屏幕边缘的距离
	HUDMargin = 10.0
	// HUDHeartSize 生命值图标边长
	HUDHeartSize = 14.0
	// HUDHeartGap 生命值图标间距
	HUDHeartGap = 4.0
	// HUDLineHeight HUD 文字行高(basicfont 7x13)
	HUDLineHeight = 16.0

	// ShieldBarWidth 护盾剩余时间条宽度
	ShieldBarWidth = 120.0
	// ShieldBarHeight 护盾剩余时间条高度
	ShieldBarHeight = 6.0

	// MenuItemSpacing 菜单项行距
	MenuItemSpacing = 36.0
)
