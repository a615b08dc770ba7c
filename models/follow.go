package models

// Follow is one directed follower -> followed edge. The composite primary key allows at most one
// edge per ordered pair; nothing stops FollowerID == FollowedID.
type Follow struct {
	FollowerID uint `gorm:"primaryKey;autoIncrement:false"`
	FollowedID uint `gorm:"primaryKey;autoIncrement:false;index"`
	Follower   User `gorm:"foreignKey:FollowerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Followed   User `gorm:"foreignKey:FollowedID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (Follow) TableName() string { return "followers" }
