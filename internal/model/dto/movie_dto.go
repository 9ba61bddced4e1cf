package dto

// CreateMovieRequest 新增影片请求。
// 评分 0-10 与价格非负在这里强制校验，不再只依赖前端表单。
type CreateMovieRequest struct {
	Title       string  `json:"title" binding:"required,max=200"`
	Description string  `json:"description" binding:"required"`
	Genre       string  `json:"genre" binding:"required,max=100"`
	Year        int     `json:"year" binding:"required,min=1900,max=2100"`
	Duration    string  `json:"duration" binding:"required,max=50"`
	Rating      float64 `json:"rating" binding:"min=0,max=10"`
	Price       float64 `json:"price" binding:"min=0"`
	Poster      string  `json:"poster" binding:"required,url,max=500"`
	Trailer     *string `json:"trailer,omitempty" binding:"omitempty,url,max=500"`
}

// UpdateMovieRequest 编辑影片请求（部分更新，仅更新给出的字段）
type UpdateMovieRequest struct {
	Title       *string  `json:"title,omitempty" binding:"omitempty,max=200"`
	Description *string  `json:"description,omitempty"`
	Genre       *string  `json:"genre,omitempty" binding:"omitempty,max=100"`
	Year        *int     `json:"year,omitempty" binding:"omitempty,min=1900,max=2100"`
	Duration    *string  `json:"duration,omitempty" binding:"omitempty,max=50"`
	Rating      *float64 `json:"rating,omitempty" binding:"omitempty,min=0,max=10"`
	Price       *float64 `json:"price,omitempty" binding:"omitempty,min=0"`
	Poster      *string  `json:"poster,omitempty" binding:"omitempty,url,max=500"`
	Trailer     *string  `json:"trailer,omitempty" binding:"omitempty,url,max=500"`
}

// MovieListItem 影片列表项（不含播放地址）
type MovieListItem struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Genre       string  `json:"genre"`
	Year        int     `json:"year"`
	Duration    string  `json:"duration"`
	Rating      float64 `json:"rating"`
	Price       float64 `json:"price"`
	Poster      string  `json:"poster"`
	CreatedAt   string  `json:"created_at"`
}

// MovieDetail 影片详情。
// Trailer 仅对有有效套餐的会话返回，其余会话只看到 Locked=true。
type MovieDetail struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Genre       string  `json:"genre"`
	Year        int     `json:"year"`
	Duration    string  `json:"duration"`
	Rating      float64 `json:"rating"`
	Price       float64 `json:"price"`
	Poster      string  `json:"poster"`
	Trailer     string  `json:"trailer,omitempty"`
	Locked      bool    `json:"locked"`
	Favorited   bool    `json:"favorited"`
	// WhatsApp 咨询深链，预填片名与价格
	WhatsappLink string `json:"whatsapp_link,omitempty"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// FavoriteResponse 收藏响应
type FavoriteResponse struct {
	Favorited bool `json:"favorited"`
}
