package model

// Location 上课场地（某地址下的一间教室或工作室），对应 locations
//
// Room 用于区分同一地址下的不同教室；Capacity 为场地可容纳人数，仅作排课参考，
// 不参与报名名额判断（名额以时段/工作坊容量为准）。
type Location struct {
	LocationID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"location_id"`
	Name       string `gorm:"type:varchar(100);not null"                     json:"name"`
	Address    string `gorm:"type:varchar(200)"                              json:"address,omitempty"`
	Room       string `gorm:"type:varchar(50)"                               json:"room,omitempty"`
	Capacity   *int   `json:"capacity,omitempty"` // NULL 表示未登记
	IsActive   bool   `gorm:"not null;default:true"                          json:"is_active"`
	SoftDeleteModel
}

// TableName 指定表名
func (Location) TableName() string { return "locations" }

// Label 展示用名称："名称 · 教室"
func (l *Location) Label() string {
	if l.Room == "" {
		return l.Name
	}
	return l.Name + " · " + l.Room
}
