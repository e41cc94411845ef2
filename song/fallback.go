package song

const OriginalProfileURL = "https://www.tiktok.com/@uta.uta_p"

var fallback = []Song{
	{ID: "1", Title: "アルビレオ (Albireo)", Artist: "ロクデナシ (Rokudenashi)", Color: "rgb(100, 149, 237)", Description: "Piano cover of Albireo.", YouTubeURL: "https://www.youtube.com/watch?v=ZhTdw7nLMxM"},
	{ID: "2", Title: "今はいいんだよ (Ima wa Iindayo)", Artist: "MIMI", Color: "rgb(144, 238, 144)", Description: "Full piano cover of MIMI's song.", YouTubeURL: "https://www.youtube.com/watch?v=nnjwtTv0vcQ"},
	{ID: "3", Title: "ちゃんとあるよ (Chanto Aru yo)", Artist: "傘村トータ (Kasamura Tota)", Color: "rgb(255, 160, 122)", Description: "Reassurance that it's still there.", YouTubeURL: "https://www.youtube.com/watch?v=xRXxETcqjdE"},
	{ID: "4", Title: "このままで (Kono Mama de)", Artist: "西野カナ (Nishino Kana)", Color: "rgb(255, 182, 193)", Description: "Piano cover of Nishino Kana.", YouTubeURL: "https://www.youtube.com/watch?v=wc1nrudQy2A"},
	{ID: "5", Title: "ハイドアンドシーク (Hide and Seek)", Artist: "19's Sound Factory", Color: "rgb(135, 206, 250)", Description: "Hatsune Miku classic.", YouTubeURL: "https://www.youtube.com/watch?v=AUBFfvKOjO4"},
	{ID: "6", Title: "ヒロイン (Heroine)", Artist: "back number", Color: "rgb(255, 255, 255)", Description: "Winter ballad cover.", YouTubeURL: "https://www.youtube.com/watch?v=KcqMGS0Uyv4"},
	{ID: "7", Title: "PLANET", Artist: "ラムジ (Lambsey)", Color: "rgb(59, 130, 246)", Description: "Planetary piano vibes.", YouTubeURL: "https://www.youtube.com/watch?v=Idnj9SqmQpg"},
	{ID: "8", Title: "明日への手紙 (Asu e no Tegami)", Artist: "手嶌葵 (Teshima Aoi)", Color: "rgb(167, 139, 250)", Description: "Letter to tomorrow.", YouTubeURL: "https://www.youtube.com/watch?v=wpPlpMrDBR4"},
	{ID: "9", Title: "悪ノ召使 (Servant of Evil)", Artist: "mothy", Color: "rgb(255, 215, 0)", Description: "Story of evil, piano version.", YouTubeURL: "https://www.youtube.com/watch?v=Hab-RjK6nQQ"},
	{ID: "10", Title: "ハロ/ハワユ (Hello/How Are You)", Artist: "ナノウ (Nanou)", Color: "rgb(196, 181, 253)", Description: "Soft piano cover.", YouTubeURL: "https://www.youtube.com/watch?v=yuXpjpAiA40"},
	{ID: "11", Title: "それで充分だよ。 (Sore de Juubun da yo)", Artist: "MIMI", Color: "rgb(144, 238, 144)", Description: "That is enough.", YouTubeURL: "https://www.youtube.com/watch?v=PtLy8grmxLM"},
	{ID: "12", Title: "愛にできることはまだあるかい", Artist: "RADWIMPS", Color: "rgb(100, 149, 237)", Description: "Is there anything love can do?", YouTubeURL: "https://www.youtube.com/watch?v=MiunS3T3f-k"},
	{ID: "13", Title: "自傷無色 (Jishou Mushoku)", Artist: "ねこぼーろ (Nekobolo)", Color: "rgb(209, 213, 219)", Description: "Self-Inflicted Achromatic.", YouTubeURL: "https://www.youtube.com/watch?v=hRYZhEJVwRU"},
	{ID: "14", Title: "繰り返し一粒 (Kurikaeshi Hitotsubu)", Artist: "猫虫P", Color: "rgb(251, 146, 60)", Description: "Repeated drop.", YouTubeURL: "https://www.youtube.com/watch?v=al3GSJMJBVI"},
	{ID: "15", Title: "明けない夜のリリィ", Artist: "傘村トータ", Color: "rgb(239, 68, 68)", Description: "Lily of the endless night.", YouTubeURL: "https://www.youtube.com/watch?v=bUlCj9pcGis"},
}

// Fallback returns a fresh copy of the fixed song list used when the feed is unavailable
func Fallback() []Song {
	out := make([]Song, len(fallback))
	copy(out, fallback)
	for i := range out {
		out[i].OriginalURL = OriginalProfileURL
	}
	return out
}
