package catalog

import "github.com/iliyamo/cinema-ticket-booking/internal/model"

var seedMovies = []model.Movie{
	{ID: "1", Title: "Avengers: Endgame", Certificate: "PG-13", Language: "English", Runtime: 181,
		Genres:    []string{"Action", "Adventure", "Drama", "Sci-Fi"},
		PosterURL: "https://m.media-amazon.com/images/M/MV5BMTc5MDE2ODcwNV5BMl5BanBnXkFtZTgwMzI2NzQ2NzM@._V1_.jpg",
		Featured:  true},
	{ID: "2", Title: "Joker", Certificate: "R", Language: "English", Runtime: 122,
		Genres:    []string{"Crime", "Drama", "Thriller"},
		PosterURL: "https://m.media-amazon.com/images/M/MV5BNGVjNWI4ZGUtNzE0MS00YTJmLWE0ZDctN2ZiYTk2YmI3NTYyXkEyXkFqcGdeQXVyMTkxNjUyNQ@@._V1_.jpg",
		Featured:  true},
	{ID: "3", Title: "The Dark Knight", Certificate: "PG-13", Language: "English", Runtime: 152,
		Genres:    []string{"Action", "Crime", "Drama", "Thriller"},
		PosterURL: "https://m.media-amazon.com/images/M/MV5BMTMxNTMwODM0NF5BMl5BanBnXkFtZTcwODAyMTk2Mw@@._V1_.jpg",
		Featured:  true},
	{ID: "4", Title: "The Lion King", Certificate: "G", Language: "English", Runtime: 88,
		Genres:    []string{"Animation", "Adventure", "Drama"},
		PosterURL: "https://m.media-amazon.com/images/M/MV5BYTYxNGMyZTYtMjE3MS00MzNjLWFjNmYtMDk3N2FmM2JiM2M1XkEyXkFqcGdeQXVyNjY5NDU4NzI@._V1_.jpg"},
	{ID: "5", Title: "Inception", Certificate: "PG-13", Language: "English", Runtime: 148,
		Genres:    []string{"Action", "Adventure", "Sci-Fi", "Thriller"},
		PosterURL: "https://m.media-amazon.com/images/M/MV5BMjAxMzY3NjcxNF5BMl5BanBnXkFtZTcwNTI5OTM0Mw@@._V1_.jpg",
		Featured:  true},
	{ID: "6", Title: "Interstellar", Certificate: "PG-13", Language: "English", Runtime: 169,
		Genres:    []string{"Adventure", "Drama", "Sci-Fi"},
		PosterURL: "https://m.media-amazon.com/images/M/MV5BZjdkOTU3MDktN2IxOS00OGEyLWFmMjktY2FiMmZkNWIyODZiXkEyXkFqcGdeQXVyMTMxODk2OTU@._V1_.jpg"},
	{ID: "7", Title: "RRR", Certificate: "PG-13", Language: "Telugu", Runtime: 187,
		Genres:    []string{"Action", "Drama", "Historical"},
		PosterURL: "https://m.media-amazon.com/images/M/MV5BOGEzYzcxYjAtZmZiNi00YzI0LWIyY2YtOTM0MDlmYzdhOWNiXkEyXkFqcGdeQXVyMTQ3Mzk2MDg4._V1_.jpg",
		Featured:  true},
	{ID: "8", Title: "Dune", Certificate: "PG-13", Language: "English", Runtime: 155,
		Genres:    []string{"Action", "Adventure", "Drama", "Sci-Fi"},
		PosterURL: "https://m.media-amazon.com/images/M/MV5BN2FjNmEyNWMtYzM0ZS00NjIyLTg5YzYtYThlMGVjNzE1OGViXkEyXkFqcGdeQXVyMTkxNjUyNQ@@._V1_FMjpg_UX1000_.jpg",
		Featured:  true},
	{ID: "9", Title: "Parasite", Certificate: "R", Language: "Korean", Runtime: 132,
		Genres:    []string{"Comedy", "Drama", "Thriller"},
		PosterURL: "https://m.media-amazon.com/images/M/MV5BYWZjMjk3ZTItODQ2ZC00NTY5LWE0ZDYtZTI3MjcwN2Q5NTVkXkEyXkFqcGdeQXVyODk4OTc3MTY@._V1_.jpg"},
	{ID: "10", Title: "Top Gun: Maverick", Certificate: "PG-13", Language: "English", Runtime: 130,
		Genres:    []string{"Action", "Drama"},
		PosterURL: "https://m.media-amazon.com/images/M/MV5BZWYzOGEwNTgtNWU3NS00ZTQ0LWJkODUtMmVhMjIwMjA1ZmQwXkEyXkFqcGdeQXVyMjkwOTAyMDU@._V1_.jpg",
		Featured:  true},
}

var seedTheaters = []model.Theater{
	{ID: "t1", Name: "PVR Cinemas", Location: "Phoenix Mall, Mumbai", Type: "Multiplex",
		ShowTimes: []string{"09:00", "12:30", "15:45", "19:00", "22:15"}},
	{ID: "t2", Name: "INOX Leisure", Location: "Nariman Point, Mumbai", Type: "Luxury Cinema",
		ShowTimes: []string{"10:15", "13:45", "17:00", "20:30", "23:00"}},
	{ID: "t3", Name: "Cinepolis", Location: "Andheri West, Mumbai", Type: "Multiplex",
		ShowTimes: []string{"09:30", "12:00", "14:30", "18:15", "21:45"}},
	{ID: "t4", Name: "Carnival Cinemas", Location: "Borivali, Mumbai", Type: "Standard Cinema",
		ShowTimes: []string{"09:15", "12:45", "16:30", "19:30", "22:45"}},
	{ID: "t5", Name: "Regal Cinema", Location: "Colaba, Mumbai", Type: "Heritage Cinema",
		ShowTimes: []string{"10:00", "14:00", "18:00", "21:00"}},
}
