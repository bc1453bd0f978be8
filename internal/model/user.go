package model

// User 学习者账户。LearnPath 仅用姓名+用户名注册，不设密码
// swagger:model User
type User struct {
	BaseModel
	Name     string `gorm:"size:100;not null" json:"name"`
	Username string `gorm:"size:50;uniqueIndex;not null" json:"username"`
}

func (User) TableName() string {
	return "lp_users"
}
