package tracker

type User struct {
	ID      int64  `json:"id" groups:"basic"`
	Name    string `json:"name" groups:"basic"`
	Surname string `json:"surname" groups:"basic"`
	Email   string `json:"email" groups:"detailed"`
	Points  int    `json:"points" groups:"basic"`
}
