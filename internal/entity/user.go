package entity

type User struct {
	Base
	Address string `gorm:"unique"`
	Name    string
}
