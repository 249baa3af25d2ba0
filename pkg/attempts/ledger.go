// Package attempts 记录付费模式下每个钱包的剩余游戏次数
package attempts

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoAttempts 没有剩余次数
	ErrNoAttempts = errors.New("no attempts left")
	// ErrInvalidWallet 钱包地址为空或过长
	ErrInvalidWallet = errors.New("invalid wallet")
	// ErrInvalidCount 发放次数必须为正
	ErrInvalidCount = errors.New("invalid attempt count")
)

// maxWalletLength 与分数表的钱包列宽一致
const maxWalletLength = 128

// Ledger 次数账本
//
// Grant 是"支付已确认"的信号,由管理员接口或机器人调用。
type Ledger interface {
	Available(ctx context.Context, wallet string) (int, error)
	// Consume 扣除一次,返回剩余次数;没有次数时返回 ErrNoAttempts
	Consume(ctx context.Context, wallet string) (int, error)
	Grant(ctx context.Context, wallet string, count int) (int, error)
}

// NormalizeWallet 去掉首尾空白并检查长度
func NormalizeWallet(wallet string) (string, error) {
	wallet = strings.TrimSpace(wallet)
	if wallet == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidWallet)
	}
	if len(wallet) > maxWalletLength {
		return "", fmt.Errorf("%w: longer than %d characters", ErrInvalidWallet, maxWalletLength)
	}
	return wallet, nil
}
