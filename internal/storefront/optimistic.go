package storefront

import "context"

// Tentative 乐观更新：先本地应用，再远端确认，失败时执行补偿
type Tentative struct {
	Apply      func()
	Confirm    func(ctx context.Context) error
	Compensate func()
}

// Run 执行一次乐观更新；Confirm 失败时调用 Compensate 并返回该错误，不重试
func (t Tentative) Run(ctx context.Context) error {
	if t.Apply != nil {
		t.Apply()
	}
	if t.Confirm == nil {
		return nil
	}
	if err := t.Confirm(ctx); err != nil {
		if t.Compensate != nil {
			t.Compensate()
		}
		return err
	}
	return nil
}
