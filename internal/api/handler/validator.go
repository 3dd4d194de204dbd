package handler

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"talleres/internal/agenda"
)

var registerOnce sync.Once

// RegisterValidators 向 gin 的校验器注册自定义 tag，路由初始化时调用一次
//
//	clock: HH:MM 或 HH:MM:SS
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("clock", validateClock)
	})
}

func validateClock(fl validator.FieldLevel) bool {
	_, ok := agenda.ParseClock(fl.Field().String())
	return ok
}
