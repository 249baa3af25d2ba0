package config

import (
	"embed"
	"fmt"
	"math"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gonewx/tears-of-aya/pkg/components"
)

//go:embed variants/*.yaml
var variantFS embed.FS

// VariantConfig 游戏变体配置
//
// 两个变体(tears / blood)共用同一个引擎,所有差异都在这里:
// 生成间隔、速度倍率基数、奖励表、是否启用护盾
type VariantConfig struct {
	Name      string          `yaml:"name"`
	Title     string          `yaml:"title"`
	Playfield PlayfieldConfig `yaml:"playfield"`
	Catcher   CatcherConfig   `yaml:"catcher"`
	Health    HealthConfig    `yaml:"health"`
	Speed     SpeedConfig     `yaml:"speed"`
	Teardrop  TeardropConfig  `yaml:"teardrop"`
	Items     ItemsConfig     `yaml:"items"`
	Shield    ShieldConfig    `yaml:"shield"`
	Feedback  FeedbackConfig  `yaml:"feedback"`
	Audio     AudioConfig     `yaml:"audio"`
}

// PlayfieldConfig 游戏区域尺寸
type PlayfieldConfig struct {
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	CeilingY float64 `yaml:"ceilingY"` // 泪滴滑动时所在的 Y 坐标
}

// CatcherConfig 接取器尺寸
type CatcherConfig struct {
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	BottomMargin float64 `yaml:"bottomMargin"` // 接取器底边到游戏区域底边的距离
}

// Y 返回接取器固定的 Y 坐标(左上角)
func (c CatcherConfig) Y(playfieldHeight float64) float64 {
	return playfieldHeight - c.BottomMargin - c.Height
}

// HealthConfig 生命值配置
type HealthConfig struct {
	Initial int `yaml:"initial"`
	Ceiling int `yaml:"ceiling"`
}

// SpeedConfig 难度(速度)配置
type SpeedConfig struct {
	BaseMultiplier     float64 `yaml:"baseMultiplier"`     // 开局速度倍率
	CheckpointInterval int     `yaml:"checkpointInterval"` // 每得多少分提速一次
	CheckpointFactor   float64 `yaml:"checkpointFactor"`   // 每次提速的乘数
}

// TeardropConfig 泪滴状态机参数
type TeardropConfig struct {
	SlideSpeed     float64 `yaml:"slideSpeed"`     // 滑动速度(像素/帧)
	FormRate       float64 `yaml:"formRate"`       // 每帧成形进度增量
	FakeRateFactor float64 `yaml:"fakeRateFactor"` // 假动作回缩速度相对成形速度的倍数
	FakeOutChance  float64 `yaml:"fakeOutChance"`  // 生成时决定做假动作的概率
	FakeOutMin     int     `yaml:"fakeOutMin"`
	FakeOutMax     int     `yaml:"fakeOutMax"`
	SlideMinFrames int     `yaml:"slideMinFrames"`
	SlideMaxFrames int     `yaml:"slideMaxFrames"`
	Width          float64 `yaml:"width"`
	Height         float64 `yaml:"height"`
	PuddleWidth    float64 `yaml:"puddleWidth"`
	PuddleHeight   float64 `yaml:"puddleHeight"`
}

// SpawnRange 生成间隔范围(毫秒),每次生成后在 [MinMs, MaxMs] 内均匀随机下一次间隔
type SpawnRange struct {
	MinMs float64 `yaml:"minMs"`
	MaxMs float64 `yaml:"maxMs"`
}

// ItemConfig 单个泪滴类别的配置
type ItemConfig struct {
	Spawn      SpawnRange `yaml:"spawn"`
	FallSpeed  float64    `yaml:"fallSpeed"`  // 基础下落速度(像素/帧),会乘以速度倍率
	Score      int        `yaml:"score"`      // 普通生命值下接住的得分
	ScoreAtMax int        `yaml:"scoreAtMax"` // 满血时接住的得分
	Health     int        `yaml:"health"`     // 接住时生命值变化
	Sound      string     `yaml:"sound"`      // 接住时播放的音效ID
}

// ItemsConfig 四个泪滴类别
type ItemsConfig struct {
	Basic  ItemConfig `yaml:"basic"`
	Bonus  ItemConfig `yaml:"bonus"`
	Hazard ItemConfig `yaml:"hazard"`
	Heal   ItemConfig `yaml:"heal"`
}

// ShieldConfig 护盾拾取物配置(仅 blood 变体启用)
type ShieldConfig struct {
	Enabled    bool       `yaml:"enabled"`
	Spawn      SpawnRange `yaml:"spawn"`
	FallSpeed  float64    `yaml:"fallSpeed"`
	Size       float64    `yaml:"size"`
	DurationMs float64    `yaml:"durationMs"`
	Sound      string     `yaml:"sound"`
}

// FeedbackConfig 飘字与水花参数
type FeedbackConfig struct {
	Decay        float64 `yaml:"decay"`
	RiseSpeed    float64 `yaml:"riseSpeed"`
	Droplets     int     `yaml:"droplets"`
	DropletSpeed float64 `yaml:"dropletSpeed"`
	Gravity      float64 `yaml:"gravity"`
}

// AudioConfig 音频资源ID
type AudioConfig struct {
	Music    string `yaml:"music"`
	Ambient  string `yaml:"ambient"`
	Miss     string `yaml:"miss"`
	Block    string `yaml:"block"`
	GameOver string `yaml:"gameOver"`
}

// Item 返回指定类别的配置,护盾类别返回 nil
func (c *VariantConfig) Item(category components.ItemCategory) *ItemConfig {
	switch category {
	case components.CategoryBasic:
		return &c.Items.Basic
	case components.CategoryBonus:
		return &c.Items.Bonus
	case components.CategoryHazard:
		return &c.Items.Hazard
	case components.CategoryHeal:
		return &c.Items.Heal
	}
	return nil
}

// SpawnCategories 返回本变体需要调度的全部类别
func (c *VariantConfig) SpawnCategories() []components.ItemCategory {
	cats := append([]components.ItemCategory(nil), components.FallingCategories...)
	if c.Shield.Enabled {
		cats = append(cats, components.CategoryShield)
	}
	return cats
}

// SpawnRangeFor 返回类别的生成间隔范围
func (c *VariantConfig) SpawnRangeFor(category components.ItemCategory) SpawnRange {
	if category == components.CategoryShield {
		return c.Shield.Spawn
	}
	if item := c.Item(category); item != nil {
		return item.Spawn
	}
	return SpawnRange{}
}

// VariantNames 返回内置变体名称(按字母序)
func VariantNames() []string {
	entries, err := variantFS.ReadDir("variants")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".yaml") {
			names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
		}
	}
	sort.Strings(names)
	return names
}

// LoadVariant 加载内置变体配置
func LoadVariant(name string) (*VariantConfig, error) {
	data, err := variantFS.ReadFile(path.Join("variants", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("unknown variant %q: %w", name, err)
	}
	return ParseVariant(data)
}

// MustLoadVariant 加载内置变体配置,失败时 panic
// 仅用于内置配置,内置 YAML 损坏属于编程错误
func MustLoadVariant(name string) *VariantConfig {
	cfg, err := LoadVariant(name)
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadVariantFile 从 YAML 文件加载变体配置(用于调参)
func LoadVariantFile(filePath string) (*VariantConfig, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read variant file: %w", err)
	}
	return ParseVariant(data)
}

// ParseVariant 解析并验证变体配置
func ParseVariant(data []byte) (*VariantConfig, error) {
	var cfg VariantConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse variant YAML: %w", err)
	}
	if err := validateVariant(&cfg); err != nil {
		return nil, fmt.Errorf("invalid variant config: %w", err)
	}
	return &cfg, nil
}

// validateVariant 验证配置的有效性
func validateVariant(cfg *VariantConfig) error {
	if cfg.Name == "" {
		return fmt.Errorf("name cannot be empty")
	}

	// 游戏区域与接取器
	if cfg.Playfield.Width <= 0 || cfg.Playfield.Height <= 0 {
		return fmt.Errorf("playfield size must be positive, got %.0fx%.0f", cfg.Playfield.Width, cfg.Playfield.Height)
	}
	if cfg.Catcher.Width <= 0 || cfg.Catcher.Height <= 0 {
		return fmt.Errorf("catcher size must be positive")
	}
	if cfg.Catcher.Width > cfg.Playfield.Width {
		return fmt.Errorf("catcher width %.0f exceeds playfield width %.0f", cfg.Catcher.Width, cfg.Playfield.Width)
	}
	if cfg.Catcher.Y(cfg.Playfield.Height) <= cfg.Playfield.CeilingY {
		return fmt.Errorf("catcher must sit below the ceiling")
	}

	// 生命值
	if cfg.Health.Ceiling < 1 {
		return fmt.Errorf("health.ceiling must be >= 1, got %d", cfg.Health.Ceiling)
	}
	if cfg.Health.Initial < 1 || cfg.Health.Initial > cfg.Health.Ceiling {
		return fmt.Errorf("health.initial must be between 1 and %d, got %d", cfg.Health.Ceiling, cfg.Health.Initial)
	}

	// 速度
	if cfg.Speed.BaseMultiplier < 1 {
		return fmt.Errorf("speed.baseMultiplier must be >= 1, got %v", cfg.Speed.BaseMultiplier)
	}
	if cfg.Speed.CheckpointInterval <= 0 {
		return fmt.Errorf("speed.checkpointInterval must be > 0, got %d", cfg.Speed.CheckpointInterval)
	}
	if cfg.Speed.CheckpointFactor < 1 {
		return fmt.Errorf("speed.checkpointFactor must be >= 1, got %v", cfg.Speed.CheckpointFactor)
	}

	// 泪滴状态机
	td := cfg.Teardrop
	if td.FormRate <= 0 || td.FormRate > 1 {
		return fmt.Errorf("teardrop.formRate must be in (0,1], got %v", td.FormRate)
	}
	if td.FakeRateFactor <= 0 {
		return fmt.Errorf("teardrop.fakeRateFactor must be > 0, got %v", td.FakeRateFactor)
	}
	if td.SlideSpeed < 0 {
		return fmt.Errorf("teardrop.slideSpeed must be >= 0, got %v", td.SlideSpeed)
	}
	if td.FakeOutChance < 0 || td.FakeOutChance > 1 {
		return fmt.Errorf("teardrop.fakeOutChance must be in [0,1], got %v", td.FakeOutChance)
	}
	if td.FakeOutMin < 1 || td.FakeOutMax < td.FakeOutMin {
		return fmt.Errorf("teardrop fake-out range invalid: %d-%d", td.FakeOutMin, td.FakeOutMax)
	}
	if td.SlideMinFrames < 1 || td.SlideMaxFrames < td.SlideMinFrames {
		return fmt.Errorf("teardrop slide range invalid: %d-%d", td.SlideMinFrames, td.SlideMaxFrames)
	}
	if td.Width <= 0 || td.Height <= 0 || td.PuddleWidth <= 0 || td.PuddleHeight <= 0 {
		return fmt.Errorf("teardrop shape sizes must be positive")
	}
	if math.Max(td.Width, td.PuddleWidth) > cfg.Playfield.Width {
		return fmt.Errorf("teardrop wider than playfield")
	}

	// 类别
	for _, cat := range components.FallingCategories {
		item := cfg.Item(cat)
		if err := validateSpawnRange(cat.String(), item.Spawn); err != nil {
			return err
		}
		if item.FallSpeed <= 0 {
			return fmt.Errorf("items.%s.fallSpeed must be > 0, got %v", cat, item.FallSpeed)
		}
		if item.Score < 0 || item.ScoreAtMax < 0 {
			return fmt.Errorf("items.%s scores must be >= 0", cat)
		}
	}
	if cfg.Items.Hazard.Health >= 0 {
		return fmt.Errorf("items.hazard.health must be negative, got %d", cfg.Items.Hazard.Health)
	}
	if cfg.Items.Heal.Health <= 0 {
		return fmt.Errorf("items.heal.health must be positive, got %d", cfg.Items.Heal.Health)
	}

	// 护盾
	if cfg.Shield.Enabled {
		if err := validateSpawnRange("shield", cfg.Shield.Spawn); err != nil {
			return err
		}
		if cfg.Shield.FallSpeed <= 0 || cfg.Shield.Size <= 0 || cfg.Shield.DurationMs <= 0 {
			return fmt.Errorf("shield fallSpeed, size and durationMs must be > 0")
		}
	}

	// 反馈
	if cfg.Feedback.Decay <= 0 {
		return fmt.Errorf("feedback.decay must be > 0, got %v", cfg.Feedback.Decay)
	}
	if cfg.Feedback.Droplets < 0 {
		return fmt.Errorf("feedback.droplets must be >= 0, got %d", cfg.Feedback.Droplets)
	}

	return nil
}

func validateSpawnRange(name string, r SpawnRange) error {
	if r.MinMs <= 0 {
		return fmt.Errorf("%s spawn minMs must be > 0, got %v", name, r.MinMs)
	}
	if r.MaxMs < r.MinMs {
		return fmt.Errorf("%s spawn maxMs (%v) must be >= minMs (%v)", name, r.MaxMs, r.MinMs)
	}
	return nil
}
